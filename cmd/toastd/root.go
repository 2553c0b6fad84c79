package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toastd",
	Short: "Transient toast notification daemon for Wayland desktops",
	Long: `toastd shows short-lived toast notifications as layer-shell surfaces.

Toasts are queued and shown one at a time with enter and exit transitions.
Other processes raise toasts over D-Bus; the bundled subcommands are thin
clients for the same interface.

Running toastd without a subcommand starts the daemon.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	RunE: runDaemon,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/toastd/toastd.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// configPath returns the configured or default config file path.
func configPath() (string, error) {
	if globalOpts.configPath != "" {
		return globalOpts.configPath, nil
	}
	return config.Path()
}
