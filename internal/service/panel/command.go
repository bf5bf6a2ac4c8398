package panel

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/mitchellh/go-ps"
	"google.golang.org/grpc"

	"github.com/oshokin/vent-panel/internal/api/grpc/monitor"
	"github.com/oshokin/vent-panel/internal/config"
	"github.com/oshokin/vent-panel/internal/controller/modbus"
	"github.com/oshokin/vent-panel/internal/controller/sim"
	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/hardware/panelio"
	"github.com/oshokin/vent-panel/internal/hardware/watchdog"
	"github.com/oshokin/vent-panel/internal/logger"
	"github.com/oshokin/vent-panel/internal/repository/records"
	"github.com/oshokin/vent-panel/internal/service/cycle"
	"github.com/oshokin/vent-panel/internal/version"
)

// Options controls the panel-controller process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the monitor API address from settings.
	ListenAddress string
	// RecordsFile overrides the records file from settings.
	RecordsFile string
	// LogLevel overrides the log level from settings.
	LogLevel string
}

// healthInterval is how often the monitor health status follows the panel.
const healthInterval = 250 * time.Millisecond

// ErrAlreadyRunning is returned when another panel-controller process exists.
var ErrAlreadyRunning = errors.New("panel-controller is already running")

// Run boots the panel and runs the control cycle until ctx is canceled.
// The monitor API is served for the lifetime of the cycle.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(cmp.Or(opts.LogLevel, settings.LogLevel), settings.LogFormat); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	ctx = logger.WithName(ctx, "panel-controller")

	if opts.RecordsFile != "" {
		settings.RecordsFile = opts.RecordsFile
	}

	if opts.ListenAddress != "" {
		settings.MonitorAddress = opts.ListenAddress
	}

	if err = ensureSingleInstance(ps.Processes, os.Getpid()); err != nil {
		return err
	}

	link, closeLink, err := openController(&settings.Controller)
	if err != nil {
		return fmt.Errorf("open controller: %w", err)
	}

	defer func() {
		if closeErr := closeLink(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close controller link", "error", closeErr)
		}
	}()

	script, err := panelio.NewScript(toPresses(settings.Simulation.Presses))
	if err != nil {
		return fmt.Errorf("load button script: %w", err)
	}

	store := records.NewFileRepository(settings.RecordsFile)
	publisher := display.NewPublisher(ctx)

	ticker := watchdog.New(settings.TickPeriod, settings.FailSafeTimeout)
	defer ticker.Stop()

	scheduler := cycle.New(cycle.Deps{
		Watchdog:   ticker,
		Controller: link,
		Display:    publisher,
		Buttons:    panelio.NewDebouncer(script),
		Store:      store,
		Sensors:    panelio.LowPowerPin(settings.Simulation.LowPower),
		FaultLine:  publisher,
		Tone:       panelio.NewTone(ctx),
	})

	if err = scheduler.Boot(ctx); err != nil {
		return fmt.Errorf("boot panel: %w", err)
	}

	// Seed the records file so every tuning value is visible and editable.
	if err = records.SaveTuning(ctx, store, scheduler.State().Tuning); err != nil {
		logger.WarnKV(ctx, "Failed to save tuning records", "error", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", settings.MonitorAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", settings.MonitorAddress, err)
	}

	grpcServer := grpc.NewServer()
	api := monitor.NewServer(publisher)
	api.Register(grpcServer)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)

	go func() {
		err := grpcServer.Serve(lis)
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			// Without the monitor API the process is unobservable; stop the cycle.
			cancel()
		}

		serveErr <- err
	}()

	go api.WatchHealth(runCtx, healthInterval)

	logger.InfoKV(ctx, "Panel controller running",
		"version", version.Short(),
		"monitor_address", settings.MonitorAddress,
		"transport", settings.Controller.Transport,
		"records_file", settings.RecordsFile,
		"tick_period", settings.TickPeriod.String(),
	)

	_ = scheduler.Run(runCtx) //nolint:errcheck // Run only ends on cancellation.

	logger.Info(ctx, "Shutting down gRPC server")
	grpcServer.GracefulStop()

	if err = <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	logger.InfoKV(ctx, "Panel controller stopped", "mode", scheduler.Mode())

	return nil
}

// openController builds the configured controller transport and its closer.
func openController(c *config.Controller) (cycle.Controller, func() error, error) {
	if c.Transport == config.TransportSimulated {
		return sim.New(), func() error { return nil }, nil
	}

	client, err := modbus.Dial(modbus.Config{
		Transport: c.Transport,
		Address:   c.Address,
		BaudRate:  c.BaudRate,
		DataBits:  c.DataBits,
		Parity:    c.Parity,
		StopBits:  c.StopBits,
		SlaveID:   c.SlaveID,
		Timeout:   c.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}

func toPresses(in []config.Press) []panelio.Press {
	out := make([]panelio.Press, 0, len(in))
	for _, p := range in {
		out = append(out, panelio.Press{Button: p.Button, At: p.At, Hold: p.Hold})
	}

	return out
}

// ensureSingleInstance fails when another process runs the same executable.
func ensureSingleInstance(list func() ([]ps.Process, error), pid int) error {
	processes, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	var self string

	for _, p := range processes {
		if p.Pid() == pid {
			self = p.Executable()

			break
		}
	}

	if self == "" {
		return nil
	}

	for _, p := range processes {
		if p.Pid() != pid && p.Executable() == self {
			return fmt.Errorf("%s (pid %d): %w", self, p.Pid(), ErrAlreadyRunning)
		}
	}

	return nil
}
