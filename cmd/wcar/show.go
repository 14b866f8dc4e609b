package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var showJSON bool

func init() {
	cmdShow.Flags().BoolVar(&showJSON, "json", false, "print the raw snapshot")
	rootCmd.AddCommand(cmdShow)
}

var cmdShow = &cobra.Command{
	Use:   "show",
	Short: "Print the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.manager.Load(cmd.Context())
		if err != nil {
			return err
		}

		if showJSON {
			data, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		printSnapshot(cmd, snap)
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap *types.SessionSnapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Captured %s\n", snap.CapturedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Processes: %s\n\n", strings.Join(snap.ProcessNames(), ", "))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tPROCESS\tTITLE\tRECT\tSTATE\tMON\tPATH")
	for _, w := range snap.Windows {
		path := types.Deref(w.WorkingDirectory)
		if path == "" {
			path = types.Deref(w.FolderPath)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d,%d %dx%d\t%s\t%d\t%s\n",
			w.ZOrder, w.ProcessName, truncate(w.Title, 48),
			w.Left, w.Top, w.Width, w.Height,
			w.ShowState, w.MonitorIndex, path)
	}
	tw.Flush()

	if len(snap.Monitors) > 0 {
		fmt.Fprintln(out)
		printMonitors(cmd, snap.Monitors)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
