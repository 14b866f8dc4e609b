//go:build !windows

package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// Native returns implementations that degrade gracefully: there are no
// windows to capture and no monitors, but launches and working-directory
// reads still work where the operating system allows.
func Native() Desktop {
	return Desktop{
		Windows:     unsupportedWindows{},
		Monitors:    noMonitors{},
		Directories: procDirectories{},
		Folders:     NoFolders{},
		Launcher:    execLauncher{},
	}
}

type unsupportedWindows struct{}

func (unsupportedWindows) TopLevelWindows() ([]Handle, error)   { return nil, ErrUnsupported }
func (unsupportedWindows) IsVisible(Handle) bool                { return false }
func (unsupportedWindows) IsToolWindow(Handle) bool             { return false }
func (unsupportedWindows) ProcessID(Handle) (uint32, error)     { return 0, ErrUnsupported }
func (unsupportedWindows) ProcessName(uint32) (string, error)   { return "", ErrUnsupported }
func (unsupportedWindows) Title(Handle) string                  { return "" }
func (unsupportedWindows) Placement(Handle) (Placement, error)  { return Placement{}, ErrUnsupported }
func (unsupportedWindows) SetPlacement(Handle, Placement) error { return ErrUnsupported }
func (unsupportedWindows) BringToTop(Handle) error              { return ErrUnsupported }
func (unsupportedWindows) MainWindow(uint32) (Handle, bool)     { return 0, false }
func (unsupportedWindows) CurrentProcessID() uint32             { return uint32(os.Getpid()) }

type noMonitors struct{}

func (noMonitors) Monitors() []types.Monitor            { return []types.Monitor{} }
func (noMonitors) PrimaryWorkArea() (screen.Rect, bool) { return screen.Rect{}, false }

// execLauncher starts the executable directly. Args is split on
// whitespace; quoting is not interpreted.
type execLauncher struct{}

func (execLauncher) Start(ctx context.Context, c Command) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmd := exec.Command(c.Executable, strings.Fields(c.Args)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", c.Executable, err)
	}
	pid := uint32(cmd.Process.Pid)
	go cmd.Wait()
	return &Process{PID: pid}, nil
}
