package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/dbus"
)

var statusOpts struct {
	jsonOut bool
}

// daemonStatus is the JSON shape printed by 'toastd status --json'.
type daemonStatus struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text,omitempty"`
	Pending uint32 `json:"pending"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the visible toast and queue depth",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.jsonOut, "json", false,
		"Output machine-readable JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	id, text, pending, err := client.Status()
	if err != nil {
		return err
	}

	if statusOpts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(daemonStatus{ID: id, Text: text, Pending: pending})
	}

	if id == "" {
		fmt.Printf("no toast visible, %d queued\n", pending)
		return nil
	}
	fmt.Printf("%s  %q, %d queued\n", id, text, pending)
	return nil
}
