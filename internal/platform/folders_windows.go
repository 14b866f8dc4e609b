//go:build windows

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// sFalse is returned by CoInitializeEx when the thread already has COM.
const sFalse = 0x00000001

// shellFolders asks the Shell.Application automation object which folder
// each file browser window shows. One walk serves a whole capture pass.
type shellFolders struct {
	ttl  time.Duration
	list func() (map[Handle]string, error)

	mu      sync.Mutex
	fetched time.Time
	folders map[Handle]string
}

func newShellFolders() *shellFolders {
	return &shellFolders{ttl: 2 * time.Second, list: shellWindows}
}

func (s *shellFolders) FolderPath(h Handle) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folders == nil || time.Since(s.fetched) > s.ttl {
		folders, err := s.list()
		if err != nil {
			folders = map[Handle]string{}
		}
		s.folders = folders
		s.fetched = time.Now()
	}
	path, ok := s.folders[h]
	return path, ok && path != ""
}

// shellWindows walks Shell.Application.Windows() and maps each window
// handle to Document.Folder.Self.Path. Windows without a folder document,
// such as Internet Explorer tabs, map to "".
func shellWindows() (map[Handle]string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return nil, fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return nil, fmt.Errorf("create Shell.Application: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("query Shell.Application: %w", err)
	}
	defer shell.Release()

	wv, err := oleutil.CallMethod(shell, "Windows")
	if err != nil {
		return nil, fmt.Errorf("list shell windows: %w", err)
	}
	defer wv.Clear()
	windows := wv.ToIDispatch()

	cv, err := oleutil.GetProperty(windows, "Count")
	if err != nil {
		return nil, fmt.Errorf("count shell windows: %w", err)
	}
	count := int(cv.Val)
	cv.Clear()

	folders := make(map[Handle]string, count)
	for i := 0; i < count; i++ {
		if h, path, ok := shellWindow(windows, i); ok {
			folders[h] = path
		}
	}
	return folders, nil
}

// shellWindow reads one entry of the shell window collection. Entries can
// close between Count and Item; those report ok=false.
func shellWindow(windows *ole.IDispatch, i int) (h Handle, path string, ok bool) {
	iv, err := oleutil.CallMethod(windows, "Item", i)
	if err != nil {
		return 0, "", false
	}
	defer iv.Clear()
	item := iv.ToIDispatch()
	if item == nil {
		return 0, "", false
	}

	hv, err := oleutil.GetProperty(item, "HWND")
	if err != nil {
		return 0, "", false
	}
	h = Handle(uintptr(hv.Val))
	hv.Clear()

	return h, folderOf(item), true
}

func folderOf(item *ole.IDispatch) string {
	disp := item
	for _, prop := range []string{"Document", "Folder", "Self"} {
		v, err := oleutil.GetProperty(disp, prop)
		if err != nil {
			return ""
		}
		defer v.Clear()
		if disp = v.ToIDispatch(); disp == nil {
			return ""
		}
	}

	pv, err := oleutil.GetProperty(disp, "Path")
	if err != nil {
		return ""
	}
	defer pv.Clear()
	return pv.ToString()
}
