package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/config"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}

		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}

		fmt.Printf("config ok: %s\n", path)
		fmt.Printf("  position:       %s\n", cfg.Display.Position)
		fmt.Printf("  short hold:     %s\n", cfg.Timing.Short.Duration())
		fmt.Printf("  long hold:      %s\n", cfg.Timing.Long.Duration())
		fmt.Printf("  transition:     %s\n", cfg.Timing.Transition.Duration())
		fmt.Printf("  queueing:       %v\n", cfg.Behavior.Queueing)
		fmt.Printf("  announcements:  %v\n", cfg.Behavior.Announcements)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}
