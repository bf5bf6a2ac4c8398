package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/vent-panel/internal/config"
	"github.com/oshokin/vent-panel/internal/service/monitor"
	"github.com/oshokin/vent-panel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// address overrides the panel monitor address from config.
	address string
	// interval between frame reads.
	interval time.Duration
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for watching a running panel.
	rootCmd = &cobra.Command{
		Use:   "panel-monitor",
		Short: "Watch a running panel and log its state changes.",
		Long: `Polls the monitor API of a running panel-controller and logs power state,
alarm and machine fault changes as they happen.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath:   configPath,
				Address:      address,
				PollInterval: interval,
				LogLevel:     logLevel,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the panel-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&address, "address", "a", "", "panel monitor address (overrides config)")
	rootCmd.Flags().
		DurationVarP(&interval, "interval", "i", monitor.DefaultPollInterval, "interval between frame reads")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}
