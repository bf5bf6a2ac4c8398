package monitor

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/vent-panel/internal/api/grpc/monitor"
	"github.com/oshokin/vent-panel/internal/config"
	"github.com/oshokin/vent-panel/internal/logger"
	"github.com/oshokin/vent-panel/internal/service/common"
)

// Options controls the monitor polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Address overrides the monitor API address from settings.
	Address string
	// PollInterval defines the interval between frame reads.
	PollInterval time.Duration
	// LogLevel overrides the log level from settings.
	LogLevel string
}

// DefaultPollInterval is used when no interval is given.
const DefaultPollInterval = time.Second

// Run polls the panel until ctx is canceled, logging each change it sees.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cmp.Or(opts.LogLevel, cfg.LogLevel), cfg.LogFormat); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	ctx = logger.WithName(ctx, "panel-monitor")

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	address := cfg.MonitorAddress
	if opts.Address != "" {
		address = opts.Address
	}

	dialOpts := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	if actor, err := common.DetectActor(); err != nil {
		logger.WarnKV(ctx, "Calling anonymously", "error", err)
	} else {
		dialOpts = append(dialOpts, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, address, dialOpts...)
	if err != nil {
		return fmt.Errorf("dial panel: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Polling panel", "address", address, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w := new(watcher)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			w.poll(ctx, client)
		}
	}
}

// frameReader is the part of common.Client the poller uses.
type frameReader interface {
	GetFrame(ctx context.Context) (*structpb.Struct, error)
	Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error)
}

// watcher remembers what was logged last.
type watcher struct {
	seen    bool
	last    api.Summary
	health  healthpb.HealthCheckResponse_ServingStatus
	failing bool
}

// poll reads one frame and logs the differences from the previous one.
func (w *watcher) poll(ctx context.Context, client frameReader) {
	frame, err := client.GetFrame(ctx)
	if err != nil {
		if !w.failing {
			logger.ErrorKV(ctx, "Panel unreachable", "error", err)
		}

		w.failing = true

		return
	}

	if w.failing {
		logger.Info(ctx, "Panel reachable again")
	}

	w.failing = false

	sum := api.Summarize(frame)
	if !w.seen || sum.Power != w.last.Power || sum.Attached != w.last.Attached {
		logger.InfoKV(ctx, "Panel state", "power", sum.Power, "attached", sum.Attached,
			"alive_minutes", sum.AliveMinutes)
	}

	if !w.seen || !slices.Equal(sum.Alarms, w.last.Alarms) {
		logger.WarnKV(ctx, "Panel alarms", "active", sum.Alarms)
	}

	if sum.Fault && (!w.seen || !w.last.Fault) {
		logger.Error(ctx, "Panel shows machine fault")
	}

	w.seen = true
	w.last = sum

	status, err := client.Health(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Health check failed", "error", err)

		return
	}

	if status != w.health {
		logger.InfoKV(ctx, "Panel health", "status", status.String())
		w.health = status
	}
}
