// Package platformtest provides an in-memory desktop for tests of the
// capture and restore engine.
package platformtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// ErrGone is returned for queries against a handle that does not exist.
var ErrGone = errors.New("window no longer exists")

// Window is one fake top-level window.
type Window struct {
	Handle    platform.Handle
	PID       uint32
	Process   string
	Title     string
	Hidden    bool
	Tool      bool
	Owned     bool
	Placement platform.Placement
}

// Desktop implements every platform collaborator in memory. Windows are
// kept in z-order, frontmost first.
type Desktop struct {
	mu sync.Mutex

	windows    []*Window
	nextHandle platform.Handle
	nextPID    uint32

	SelfPID      uint32
	EnumErr      error
	PlacementErr map[platform.Handle]error
	RaiseErr     map[platform.Handle]error
	MonitorList  []types.Monitor
	WorkArea     *screen.Rect
	Dirs         map[uint32]string
	Folders      map[platform.Handle]string

	Placed []Placed
	Raised []platform.Handle
}

// Placed records one SetPlacement call.
type Placed struct {
	Handle    platform.Handle
	Placement platform.Placement
}

// NewDesktop returns an empty desktop owned by process 1.
func NewDesktop() *Desktop {
	return &Desktop{
		nextHandle:   0x1000,
		nextPID:      1000,
		SelfPID:      1,
		PlacementErr: map[platform.Handle]error{},
		RaiseErr:     map[platform.Handle]error{},
		Dirs:         map[uint32]string{},
		Folders:      map[platform.Handle]string{},
	}
}

// Collaborators returns the desktop wired as every platform dependency,
// using launcher for process starts.
func (d *Desktop) Collaborators(launcher platform.Launcher) platform.Desktop {
	return platform.Desktop{
		Windows:     d,
		Monitors:    d,
		Directories: d,
		Folders:     d,
		Launcher:    launcher,
	}
}

// Add appends w behind every existing window, assigning a handle and a PID
// when they are zero.
func (d *Desktop) Add(w Window) *Window {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w.Handle == 0 {
		d.nextHandle++
		w.Handle = d.nextHandle
	}
	if w.PID == 0 {
		d.nextPID++
		w.PID = d.nextPID
	}
	win := &w
	d.windows = append(d.windows, win)
	return win
}

// NewPID reserves a process ID.
func (d *Desktop) NewPID() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextPID++
	return d.nextPID
}

// Remove closes a window.
func (d *Desktop) Remove(h platform.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.windows {
		if w.Handle == h {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			return
		}
	}
}

// Window returns a copy of the window with handle h.
func (d *Desktop) Window(h platform.Handle) (Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w := d.find(h); w != nil {
		return *w, true
	}
	return Window{}, false
}

// Stack returns handles in current z-order, frontmost first.
func (d *Desktop) Stack() []platform.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]platform.Handle, len(d.windows))
	for i, w := range d.windows {
		out[i] = w.Handle
	}
	return out
}

func (d *Desktop) find(h platform.Handle) *Window {
	for _, w := range d.windows {
		if w.Handle == h {
			return w
		}
	}
	return nil
}

func (d *Desktop) TopLevelWindows() ([]platform.Handle, error) {
	if d.EnumErr != nil {
		return nil, d.EnumErr
	}
	return d.Stack(), nil
}

func (d *Desktop) IsVisible(h platform.Handle) bool {
	w, ok := d.Window(h)
	return ok && !w.Hidden
}

func (d *Desktop) IsToolWindow(h platform.Handle) bool {
	w, ok := d.Window(h)
	return ok && w.Tool
}

func (d *Desktop) ProcessID(h platform.Handle) (uint32, error) {
	w, ok := d.Window(h)
	if !ok {
		return 0, ErrGone
	}
	return w.PID, nil
}

func (d *Desktop) ProcessName(pid uint32) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w.PID == pid {
			return w.Process, nil
		}
	}
	return "", ErrGone
}

func (d *Desktop) Title(h platform.Handle) string {
	w, _ := d.Window(h)
	return w.Title
}

func (d *Desktop) Placement(h platform.Handle) (platform.Placement, error) {
	if err := d.PlacementErr[h]; err != nil {
		return platform.Placement{}, err
	}
	w, ok := d.Window(h)
	if !ok {
		return platform.Placement{}, ErrGone
	}
	return w.Placement, nil
}

func (d *Desktop) SetPlacement(h platform.Handle, p platform.Placement) error {
	if err := d.PlacementErr[h]; err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(h)
	if w == nil {
		return ErrGone
	}
	w.Placement = p
	d.Placed = append(d.Placed, Placed{Handle: h, Placement: p})
	return nil
}

func (d *Desktop) BringToTop(h platform.Handle) error {
	if err := d.RaiseErr[h]; err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.windows {
		if w.Handle == h {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			d.windows = append([]*Window{w}, d.windows...)
			d.Raised = append(d.Raised, h)
			return nil
		}
	}
	return ErrGone
}

func (d *Desktop) MainWindow(pid uint32) (platform.Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w.PID == pid && !w.Hidden && !w.Owned {
			return w.Handle, true
		}
	}
	return 0, false
}

func (d *Desktop) CurrentProcessID() uint32 { return d.SelfPID }

func (d *Desktop) Monitors() []types.Monitor {
	return append([]types.Monitor{}, d.MonitorList...)
}

func (d *Desktop) PrimaryWorkArea() (screen.Rect, bool) {
	if d.WorkArea == nil {
		return screen.Rect{}, false
	}
	return *d.WorkArea, true
}

func (d *Desktop) WorkingDirectory(pid uint32) (string, bool) {
	dir, ok := d.Dirs[pid]
	return dir, ok
}

func (d *Desktop) FolderPath(h platform.Handle) (string, bool) {
	p, ok := d.Folders[h]
	return p, ok
}

// Launcher records every start request. OnStart, when set, decides the
// outcome; otherwise starts succeed without a process handle.
type Launcher struct {
	mu       sync.Mutex
	Commands []platform.Command
	Fail     map[string]error
	OnStart  func(cmd platform.Command) (*platform.Process, error)
}

// NewLauncher returns a launcher that records starts and returns nil.
func NewLauncher() *Launcher {
	return &Launcher{Fail: map[string]error{}}
}

func (l *Launcher) Start(_ context.Context, cmd platform.Command) (*platform.Process, error) {
	l.mu.Lock()
	l.Commands = append(l.Commands, cmd)
	fail := l.Fail[strings.ToLower(cmd.Executable)]
	onStart := l.OnStart
	l.mu.Unlock()

	if fail != nil {
		return nil, fail
	}
	if onStart != nil {
		return onStart(cmd)
	}
	return nil, nil
}

// Starts returns how many start requests were made.
func (l *Launcher) Starts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Commands)
}
