//go:build windows

package platform

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")

	procShellExecuteExW = shell32.NewProc("ShellExecuteExW")
)

const (
	seeMaskNoCloseProcess = 0x00000040
	seeMaskFlagNoUI       = 0x00000400
)

// shellExecuteInfo mirrors SHELLEXECUTEINFOW.
type shellExecuteInfo struct {
	Size       uint32
	Mask       uint32
	Hwnd       windows.HWND
	Verb       *uint16
	File       *uint16
	Parameters *uint16
	Directory  *uint16
	Show       int32
	InstApp    windows.Handle
	IDList     uintptr
	Class      *uint16
	KeyClass   windows.Handle
	HotKey     uint32
	Icon       windows.Handle
	Process    windows.Handle
}

// shellLauncher starts processes through the shell so App Paths
// registrations and bare names such as "chrome" resolve the way they do
// from the Run dialog.
type shellLauncher struct{}

func (shellLauncher) Start(ctx context.Context, cmd Command) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := windows.UTF16PtrFromString(cmd.Executable)
	if err != nil {
		return nil, fmt.Errorf("invalid executable %q: %w", cmd.Executable, err)
	}
	var params *uint16
	if cmd.Args != "" {
		if params, err = windows.UTF16PtrFromString(cmd.Args); err != nil {
			return nil, fmt.Errorf("invalid arguments %q: %w", cmd.Args, err)
		}
	}

	info := shellExecuteInfo{
		Mask:       seeMaskNoCloseProcess | seeMaskFlagNoUI,
		Verb:       windows.StringToUTF16Ptr("open"),
		File:       file,
		Parameters: params,
		Show:       windows.SW_SHOWNORMAL,
	}
	info.Size = uint32(unsafe.Sizeof(info))

	if r, _, callErr := procShellExecuteExW.Call(uintptr(unsafe.Pointer(&info))); r == 0 {
		return nil, callErr
	}
	if info.Process == 0 {
		return nil, nil
	}
	defer windows.CloseHandle(info.Process)

	pid, err := windows.GetProcessId(info.Process)
	if err != nil {
		return nil, nil
	}
	return &Process{PID: pid}, nil
}
