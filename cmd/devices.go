package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/0xlemi/tunescope/internal/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		devices, err := audio.ListInputDevices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No input devices found")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("", "NAME", "CHANNELS", "RATE", "LATENCY")
		for _, d := range devices {
			mark := ""
			if d.Default {
				mark = "*"
			}
			t.Row(mark, d.Name,
				strconv.Itoa(d.MaxInputChannels),
				fmt.Sprintf("%.0f Hz", d.DefaultSampleRate),
				d.DefaultLatency.String())
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
