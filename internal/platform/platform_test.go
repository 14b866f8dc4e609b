package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWindows struct {
	unsupportedStub
	handles []Handle
	visible map[Handle]bool
	pids    map[Handle]uint32
	names   map[uint32]string
	titles  map[Handle]string
	calls   map[uint32]int
}

// unsupportedStub fills in the methods ProcessWindows never calls.
type unsupportedStub struct{}

func (unsupportedStub) IsToolWindow(Handle) bool             { return false }
func (unsupportedStub) Placement(Handle) (Placement, error)  { return Placement{}, nil }
func (unsupportedStub) SetPlacement(Handle, Placement) error { return nil }
func (unsupportedStub) BringToTop(Handle) error              { return nil }
func (unsupportedStub) MainWindow(uint32) (Handle, bool)     { return 0, false }
func (unsupportedStub) CurrentProcessID() uint32             { return 1 }

func (s *stubWindows) TopLevelWindows() ([]Handle, error) { return s.handles, nil }
func (s *stubWindows) IsVisible(h Handle) bool            { return s.visible[h] }
func (s *stubWindows) Title(h Handle) string              { return s.titles[h] }

func (s *stubWindows) ProcessID(h Handle) (uint32, error) {
	pid, ok := s.pids[h]
	if !ok {
		return 0, errors.New("gone")
	}
	return pid, nil
}

func (s *stubWindows) ProcessName(pid uint32) (string, error) {
	s.calls[pid]++
	name, ok := s.names[pid]
	if !ok {
		return "", errors.New("access denied")
	}
	return name, nil
}

func TestProcessWindows(t *testing.T) {
	ws := &stubWindows{
		handles: []Handle{1, 2, 3, 4, 5, 6},
		visible: map[Handle]bool{1: true, 2: true, 3: false, 4: true, 5: true, 6: true},
		pids:    map[Handle]uint32{1: 100, 2: 100, 3: 100, 4: 200, 5: 100},
		names:   map[uint32]string{100: "Chrome", 200: "cmd"},
		titles:  map[Handle]string{1: "Inbox", 2: "", 3: "Hidden", 4: "C:\\", 5: "Docs"},
		calls:   map[uint32]int{},
	}

	got, err := ProcessWindows(ws, "chrome")
	require.NoError(t, err)

	assert.Equal(t, []LiveWindow{{Handle: 1, Title: "Inbox"}, {Handle: 5, Title: "Docs"}}, got)
	assert.Equal(t, 1, ws.calls[100], "process names are resolved once per pid")
}

func TestProcessWindowsUnsupported(t *testing.T) {
	_, err := ProcessWindows(&failingWindows{}, "chrome")
	assert.ErrorIs(t, err, ErrUnsupported)
}

type failingWindows struct{ stubWindows }

func (failingWindows) TopLevelWindows() ([]Handle, error) { return nil, ErrUnsupported }

func TestTrimDirectory(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`C:\`, `C:\`},
		{`C:\Users\dev\`, `C:\Users\dev`},
		{`C:\Users\dev`, `C:\Users\dev`},
		{`D:\src\\`, `D:\src\`},
		{"/home/dev/", "/home/dev"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, trimDirectory(tt.in))
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "explorer.exe", Command{Executable: "explorer.exe"}.String())
	assert.Equal(t, `cmd.exe /K cd /d "C:\src"`, Command{Executable: "cmd.exe", Args: `/K cd /d "C:\src"`}.String())
}

func TestNopCollaborators(t *testing.T) {
	_, ok := NoDirectories{}.WorkingDirectory(42)
	assert.False(t, ok)
	_, ok = NoFolders{}.FolderPath(42)
	assert.False(t, ok)
}
