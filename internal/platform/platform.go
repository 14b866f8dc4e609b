package platform

import (
	"context"
	"errors"
	"strings"

	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// ErrUnsupported is returned by window-system operations on operating
// systems without a native implementation.
var ErrUnsupported = errors.New("platform: window system not supported on this operating system")

// Handle is an opaque top-level window handle.
type Handle uintptr

// Placement is a window's show-state plus its restored rectangle.
type Placement struct {
	ShowState types.ShowState
	Normal    screen.Rect
}

// LiveWindow is a window observed on the desktop right now.
type LiveWindow struct {
	Handle Handle
	Title  string
}

// WindowSystem enumerates and manipulates top-level windows.
type WindowSystem interface {
	// TopLevelWindows returns handles in z-order, frontmost first.
	TopLevelWindows() ([]Handle, error)
	IsVisible(h Handle) bool
	IsToolWindow(h Handle) bool
	ProcessID(h Handle) (uint32, error)
	ProcessName(pid uint32) (string, error)
	Title(h Handle) string
	Placement(h Handle) (Placement, error)
	SetPlacement(h Handle, p Placement) error
	// BringToTop moves h to the top of the stack without activating it.
	BringToTop(h Handle) error
	// MainWindow returns the first visible unowned window of pid.
	MainWindow(pid uint32) (Handle, bool)
	// CurrentProcessID identifies this process so its own windows are skipped.
	CurrentProcessID() uint32
}

// MonitorProvider reports the display topology. It never fails; an empty
// list is a valid degraded answer.
type MonitorProvider interface {
	Monitors() []types.Monitor
	PrimaryWorkArea() (screen.Rect, bool)
}

// DirectoryReader reads the current working directory of another process.
type DirectoryReader interface {
	WorkingDirectory(pid uint32) (string, bool)
}

// FolderResolver returns the folder displayed by a file-browser window.
type FolderResolver interface {
	FolderPath(h Handle) (string, bool)
}

// Command is a process launch request. Args is a raw command-line tail.
type Command struct {
	Executable string
	Args       string
}

func (c Command) String() string {
	if c.Args == "" {
		return c.Executable
	}
	return c.Executable + " " + c.Args
}

// Process identifies a started process.
type Process struct {
	PID uint32
}

// Launcher starts processes. A nil Process with a nil error means the
// process started but no handle is available, as happens when the shell
// hands the request to an already running instance.
type Launcher interface {
	Start(ctx context.Context, cmd Command) (*Process, error)
}

// Desktop bundles the collaborators of one operating system.
type Desktop struct {
	Windows     WindowSystem
	Monitors    MonitorProvider
	Directories DirectoryReader
	Folders     FolderResolver
	Launcher    Launcher
}

// ProcessWindows returns the visible, titled windows owned by any process
// named name, in z-order.
func ProcessWindows(ws WindowSystem, name string) ([]LiveWindow, error) {
	handles, err := ws.TopLevelWindows()
	if err != nil {
		return nil, err
	}

	names := make(map[uint32]bool)
	var result []LiveWindow
	for _, h := range handles {
		if !ws.IsVisible(h) {
			continue
		}
		pid, err := ws.ProcessID(h)
		if err != nil {
			continue
		}
		owned, seen := names[pid]
		if !seen {
			pname, err := ws.ProcessName(pid)
			owned = err == nil && strings.EqualFold(pname, name)
			names[pid] = owned
		}
		if !owned {
			continue
		}
		if title := ws.Title(h); title != "" {
			result = append(result, LiveWindow{Handle: h, Title: title})
		}
	}
	return result, nil
}

// NoDirectories never knows a working directory.
type NoDirectories struct{}

func (NoDirectories) WorkingDirectory(uint32) (string, bool) { return "", false }

// NoFolders never knows a folder path.
type NoFolders struct{}

func (NoFolders) FolderPath(Handle) (string, bool) { return "", false }

// trimDirectory strips one trailing separator unless the path is a drive
// root such as C:\.
func trimDirectory(dir string) string {
	if len(dir) > 3 && (strings.HasSuffix(dir, `\`) || strings.HasSuffix(dir, "/")) {
		return dir[:len(dir)-1]
	}
	return dir
}
