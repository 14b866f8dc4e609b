package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/wcar/internal/shared/id"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var restoreFlags struct {
	noRemap bool
	from    string
	quiet   bool
}

func init() {
	cmdRestore.Flags().BoolVar(&restoreFlags.noRemap, "no-remap", false, "keep saved coordinates even if the monitors changed")
	cmdRestore.Flags().StringVar(&restoreFlags.from, "from", "", "restore an archived snapshot by history id")
	cmdRestore.Flags().BoolVarP(&restoreFlags.quiet, "quiet", "q", false, "no progress spinner")
	rootCmd.AddCommand(cmdRestore)
}

var cmdRestore = &cobra.Command{
	Use:   "restore",
	Short: "Relaunch and reposition the saved windows",
	Long: `Relaunches the windows of the saved session and restores their position,
state and stacking order. Problems are reported per window; the command exits
with status 2 if any window could not be relaunched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sid id.SnapshotID
		if restoreFlags.from != "" {
			sid = id.SnapshotID(restoreFlags.from)
			if !sid.Valid() {
				return fmt.Errorf("invalid history id %q", restoreFlags.from)
			}
		}

		a, err := setup(cmd, setupOptions{noRemap: restoreFlags.noRemap})
		if err != nil {
			return err
		}
		defer a.Close()

		var spin *spinner.Spinner
		if !restoreFlags.quiet {
			spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			spin.Suffix = " Restoring windows..."
			spin.Start()
		}

		var result *types.RestoreResult
		if sid != "" {
			result, err = a.manager.RestoreFrom(cmd.Context(), sid)
		} else {
			result, err = a.manager.Restore(cmd.Context())
		}
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return err
		}

		return reportRestore(cmd, result)
	},
}

func reportRestore(cmd *cobra.Command, result *types.RestoreResult) error {
	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}

	if len(result.Errors) > 0 {
		return exitError{code: 2, msg: fmt.Sprintf("%d window(s) could not be restored", len(result.Errors))}
	}
	fmt.Fprintf(out, "Restore complete (%d warning(s))\n", len(result.Warnings))
	return nil
}
