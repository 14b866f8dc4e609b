//go:build windows

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowLongW       = user32.NewProc("GetWindowLongW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowPlacement   = user32.NewProc("GetWindowPlacement")
	procSetWindowPlacement   = user32.NewProc("SetWindowPlacement")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procGetWindow            = user32.NewProc("GetWindow")
)

const (
	gwlExStyle     = -20
	wsExToolWindow = 0x00000080
	gwOwner        = 4

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010
	hwndTop       = 0
)

type point struct {
	X, Y int32
}

type windowPlacement struct {
	Length         uint32
	Flags          uint32
	ShowCmd        uint32
	MinPosition    point
	MaxPosition    point
	NormalPosition windows.Rect
}

// EnumWindows callbacks are a scarce resource, so one callback is created
// for the process and fed through a mutex-guarded slice.
var (
	enumMu      sync.Mutex
	enumHandles []Handle
	enumProc    = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		enumHandles = append(enumHandles, Handle(hwnd))
		return 1
	})
)

type win32Windows struct{}

func (win32Windows) TopLevelWindows() ([]Handle, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumHandles = nil
	if err := windows.EnumWindows(enumProc, nil); err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}
	handles := enumHandles
	enumHandles = nil
	return handles, nil
}

func (win32Windows) IsVisible(h Handle) bool {
	return windows.IsWindowVisible(windows.HWND(h))
}

func (win32Windows) IsToolWindow(h Handle) bool {
	style, _, _ := procGetWindowLongW.Call(uintptr(h), int32ToUintptr(gwlExStyle))
	return uint32(style)&wsExToolWindow != 0
}

func (win32Windows) ProcessID(h Handle) (uint32, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid); err != nil {
		return 0, fmt.Errorf("window %#x: %w", uintptr(h), err)
	}
	if pid == 0 {
		return 0, fmt.Errorf("window %#x: no owning process", uintptr(h))
	}
	return pid, nil
}

func (win32Windows) ProcessName(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("image name of %d: %w", pid, err)
	}

	base := filepath.Base(windows.UTF16ToString(buf[:size]))
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

func (win32Windows) Title(h Handle) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	copied, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:copied])
}

func (win32Windows) Placement(h Handle) (Placement, error) {
	wp := windowPlacement{}
	wp.Length = uint32(unsafe.Sizeof(wp))

	r, _, err := procGetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return Placement{}, fmt.Errorf("get placement of %#x: %w", uintptr(h), err)
	}

	n := wp.NormalPosition
	return Placement{
		ShowState: types.ShowState(wp.ShowCmd),
		Normal: screen.Rect{
			Left:   int(n.Left),
			Top:    int(n.Top),
			Width:  int(n.Right - n.Left),
			Height: int(n.Bottom - n.Top),
		},
	}, nil
}

func (win32Windows) SetPlacement(h Handle, p Placement) error {
	wp := windowPlacement{
		ShowCmd: uint32(p.ShowState),
		NormalPosition: windows.Rect{
			Left:   int32(p.Normal.Left),
			Top:    int32(p.Normal.Top),
			Right:  int32(p.Normal.Right()),
			Bottom: int32(p.Normal.Bottom()),
		},
	}
	wp.Length = uint32(unsafe.Sizeof(wp))

	r, _, err := procSetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return fmt.Errorf("set placement of %#x: %w", uintptr(h), err)
	}
	return nil
}

func (win32Windows) BringToTop(h Handle) error {
	r, _, err := procSetWindowPos.Call(uintptr(h), hwndTop, 0, 0, 0, 0, swpNoSize|swpNoMove|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("raise %#x: %w", uintptr(h), err)
	}
	return nil
}

func (w win32Windows) MainWindow(pid uint32) (Handle, bool) {
	handles, err := w.TopLevelWindows()
	if err != nil {
		return 0, false
	}
	for _, h := range handles {
		if !w.IsVisible(h) {
			continue
		}
		if owner, _, _ := procGetWindow.Call(uintptr(h), gwOwner); owner != 0 {
			continue
		}
		if owned, err := w.ProcessID(h); err == nil && owned == pid {
			return h, true
		}
	}
	return 0, false
}

func (win32Windows) CurrentProcessID() uint32 {
	return windows.GetCurrentProcessId()
}

// int32ToUintptr sign-extends negative indices such as GWL_EXSTYLE.
func int32ToUintptr(v int32) uintptr {
	return uintptr(v)
}
