package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/dbus"
)

var cancelOpts struct {
	all bool
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel a queued or visible toast",
	Long: `Cancel a toast by the identifier printed by 'toastd send'.

A visible toast runs its exit transition immediately; a queued toast is
discarded. With --all every queued and visible toast is cancelled.`,
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)

	cancelCmd.Flags().BoolVar(&cancelOpts.all, "all", false,
		"Cancel every queued and visible toast")
}

func runCancel(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	if cancelOpts.all {
		return client.CancelAll()
	}

	if len(args) != 1 {
		return fmt.Errorf("expected a toast id or --all")
	}

	found, err := client.Cancel(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such toast: %s", args[0])
	}
	return nil
}
