package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var appsInit bool

func init() {
	cmdApps.Flags().BoolVar(&appsInit, "init", false, "write the default policy file if none exists")
	rootCmd.AddCommand(cmdApps)
}

var cmdApps = &cobra.Command{
	Use:   "apps",
	Short: "List the tracked applications",
	Long:  `Lists the tracked-app policy. Edit the file shown to change which applications are captured and how they are relaunched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if appsInit {
			if _, err := os.Stat(a.apps.Path()); err == nil {
				fmt.Fprintf(out, "%s already exists\n", a.apps.Path())
			} else {
				if err := a.apps.Save(types.DefaultTrackedApps()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", a.apps.Path())
			}
		}

		fmt.Fprintf(out, "Policy: %s\n\n", a.apps.Path())
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROCESS\tNAME\tENABLED\tLAUNCH\tEXECUTABLE")
		for _, app := range a.apps.Current() {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", app.ProcessName, app.DisplayName, app.Enabled, app.Launch, app.LaunchTarget())
		}
		return tw.Flush()
	},
}
