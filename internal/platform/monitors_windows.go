//go:build windows

package platform

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var (
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const monitorInfoFPrimary = 0x1

type monitorInfoEx struct {
	Size    uint32
	Monitor windows.Rect
	Work    windows.Rect
	Flags   uint32
	Device  [32]uint16
}

var (
	monitorMu      sync.Mutex
	monitorHandles []uintptr
	monitorProc    = windows.NewCallback(func(hmon, _, _, _ uintptr) uintptr {
		monitorHandles = append(monitorHandles, hmon)
		return 1
	})
)

type win32Monitors struct{}

type monitorDetail struct {
	monitor types.Monitor
	work    screen.Rect
}

func (win32Monitors) Monitors() []types.Monitor {
	details := displayDetails()
	out := make([]types.Monitor, 0, len(details))
	for _, d := range details {
		out = append(out, d.monitor)
	}
	return out
}

func (win32Monitors) PrimaryWorkArea() (screen.Rect, bool) {
	for _, d := range displayDetails() {
		if d.monitor.IsPrimary {
			return d.work, true
		}
	}
	return screen.Rect{}, false
}

// displayDetails never fails: any error yields the monitors collected so
// far, which may be none.
func displayDetails() (details []monitorDetail) {
	defer func() {
		if recover() != nil {
			details = nil
		}
	}()

	for _, hmon := range monitorHandleList() {
		info := monitorInfoEx{}
		info.Size = uint32(unsafe.Sizeof(info))
		if ok, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info))); ok == 0 {
			continue
		}
		details = append(details, monitorDetail{
			monitor: types.Monitor{
				DeviceName: windows.UTF16ToString(info.Device[:]),
				Left:       int(info.Monitor.Left),
				Top:        int(info.Monitor.Top),
				Width:      int(info.Monitor.Right - info.Monitor.Left),
				Height:     int(info.Monitor.Bottom - info.Monitor.Top),
				IsPrimary:  info.Flags&monitorInfoFPrimary != 0,
			},
			work: screen.Rect{
				Left:   int(info.Work.Left),
				Top:    int(info.Work.Top),
				Width:  int(info.Work.Right - info.Work.Left),
				Height: int(info.Work.Bottom - info.Work.Top),
			},
		})
	}
	return details
}

func monitorHandleList() []uintptr {
	monitorMu.Lock()
	defer monitorMu.Unlock()

	monitorHandles = nil
	if r, _, _ := procEnumDisplayMonitors.Call(0, 0, monitorProc, 0); r == 0 {
		return nil
	}
	handles := monitorHandles
	monitorHandles = nil
	return handles
}
