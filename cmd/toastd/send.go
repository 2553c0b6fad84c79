package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/dbus"
)

var sendOpts struct {
	durationMS int32
	enter      string
	exit       string
	icon       string
}

var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Raise a toast via the running daemon",
	Long: `Send a toast to the running toastd daemon over D-Bus.

The daemon queues the toast behind any toast currently on screen and prints
the toast identifier, which can be passed to 'toastd cancel'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().Int32VarP(&sendOpts.durationMS, "duration", "d", 0,
		"Hold duration in milliseconds (0 = daemon default)")
	sendCmd.Flags().StringVar(&sendOpts.enter, "enter", "",
		"Enter transition (fade, slide-top, slide-bottom, slide-left, slide-right, bounce)")
	sendCmd.Flags().StringVar(&sendOpts.exit, "exit", "",
		"Exit transition (fade, slide-top, slide-bottom, slide-left, slide-right, shrink)")
	sendCmd.Flags().StringVar(&sendOpts.icon, "icon", "",
		"Icon name to show next to the text")
}

func runSend(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	id, err := client.Show(&dbus.ShowRequest{
		Text:       strings.Join(args, " "),
		DurationMS: sendOpts.durationMS,
		Enter:      sendOpts.enter,
		Exit:       sendOpts.exit,
		Icon:       sendOpts.icon,
	})
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}
