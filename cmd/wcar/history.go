package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdHistory)
}

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "List archived snapshots",
	Long:  `Lists archived snapshots, newest first. Pass an id to "wcar restore --from".`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.manager.History().List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No archived snapshots")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCAPTURED\tSIZE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", e.ID, e.CapturedAt.Local().Format("2006-01-02 15:04:05"), e.Size)
		}
		return tw.Flush()
	},
}
