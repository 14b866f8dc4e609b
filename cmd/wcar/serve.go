package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wcar/internal/infrastructure/server"
)

var serveQuiet bool

func init() {
	cmdServe.Flags().BoolVarP(&serveQuiet, "quiet", "q", false, "no status spinner")
	rootCmd.AddCommand(cmdServe)
}

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Run the control API with periodic autosave",
	Long: `Serves the local control API (default 127.0.0.1:7420), autosaves the
session on an interval and reloads the tracked-app file when it changes.
Stops on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(a.cfg, server.Deps{
			Manager:  a.manager,
			Apps:     a.apps,
			Monitors: a.desktop.Monitors,
			Metrics:  a.metrics,
			Logger:   a.logger,
			Version:  version,
		})

		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", a.cfg.Addr())
		if !serveQuiet {
			spin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			spin.Suffix = " Running..."
			spin.Start()
			defer spin.Stop()
		}

		return srv.Run(cmd.Context())
	},
}
