package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/vent-panel/internal/config"
	"github.com/oshokin/vent-panel/internal/service/panel"
	"github.com/oshokin/vent-panel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// recordsFile overrides where alive minutes and tuning records are persisted.
	recordsFile string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the panel control cycle.
	rootCmd = &cobra.Command{
		Use:   "panel-controller [listen-address]",
		Short: "Run the ventilator operator panel control cycle.",
		Long: `Runs the operator panel control cycle against the configured ventilation controller.

Every tick the panel waits for the watchdog, exchanges one request/response pair
with the controller, debounces the buttons, steps the power and edit state machines,
evaluates alarms and renders the display frame.

The latest frame is published over a gRPC monitor API on the configured address.
Listen address can be provided as argument to override config (e.g., 127.0.0.1:50070).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &panel.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				RecordsFile:   recordsFile,
				LogLevel:      logLevel,
			}

			return panel.Run(ctx, options)
		},
	}
)

// Execute runs the panel-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&recordsFile, "records-file", "r", "", "path to persisted records (overrides config)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}
