package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdSave)
}

var cmdSave = &cobra.Command{
	Use:   "save",
	Short: "Capture the current desktop",
	Long:  `Captures every window of the enabled tracked apps and writes it as the current session. The previous session is kept as session.prev.json.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.manager.Save(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d window(s) across %d monitor(s)\n", len(snap.Windows), len(snap.Monitors))
		return nil
	},
}
