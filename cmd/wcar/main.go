package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is stamped by the release build.
var version = "dev"

var rootFlags struct {
	dataDir  string
	appsFile string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "wcar [command]",
	Short: "wcar: save and restore your window layout",
	Long: `wcar captures the open windows of tracked applications (position, size,
state, stacking order, working directory) and relaunches them later in the
same place, remapping onto a different monitor setup when needed.

Quick start:
  wcar save                 # Capture the desktop
  wcar restore              # Relaunch and reposition everything
  wcar show                 # Inspect the saved session
  wcar serve                # Control API with periodic autosave`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "", "data directory (default %LocalAppData%\\WCAR)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.appsFile, "apps", "", "tracked-app policy file (.yaml, .toml or .json)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("Error:", err)
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

// exitError carries a specific exit status.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }
