package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

func init() {
	rootCmd.AddCommand(cmdMonitors)
}

var cmdMonitors = &cobra.Command{
	Use:   "monitors",
	Short: "List the connected monitors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		monitors := a.desktop.Monitors.Monitors()
		if len(monitors) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No monitors detected")
			return nil
		}
		printMonitors(cmd, monitors)
		return nil
	},
}

func printMonitors(cmd *cobra.Command, monitors []types.Monitor) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDEVICE\tBOUNDS\tPRIMARY")
	for i, m := range monitors {
		fmt.Fprintf(tw, "%d\t%s\t%d,%d %dx%d\t%t\n", i, m.DeviceName, m.Left, m.Top, m.Width, m.Height, m.IsPrimary)
	}
	tw.Flush()
}
