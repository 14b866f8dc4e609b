package types

import (
	"strings"
	"time"
)

// ShowState is a window show-state using the legacy numeric codes.
type ShowState int

const (
	ShowHidden     ShowState = 0
	ShowNormal     ShowState = 1
	ShowMinimized  ShowState = 2
	ShowMaximized  ShowState = 3
	ShowNoActivate ShowState = 4
	ShowShow       ShowState = 5
	ShowRestore    ShowState = 9
)

// String returns the string representation of the show-state
func (s ShowState) String() string {
	switch s {
	case ShowHidden:
		return "hidden"
	case ShowNormal:
		return "normal"
	case ShowMinimized:
		return "minimized"
	case ShowMaximized:
		return "maximized"
	case ShowNoActivate:
		return "noactivate"
	case ShowShow:
		return "show"
	case ShowRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Monitor describes a physical display. Monitors are compared by position,
// never by device name.
type Monitor struct {
	DeviceName string `json:"deviceName"`
	Left       int    `json:"left"`
	Top        int    `json:"top"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	IsPrimary  bool   `json:"isPrimary"`
}

// Contains reports whether the point lies in the half-open monitor rectangle.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.Left && x < m.Left+m.Width && y >= m.Top && y < m.Top+m.Height
}

// WindowRecord is one captured top-level window.
type WindowRecord struct {
	ProcessName      string    `json:"processName"`
	Title            string    `json:"title"`
	Left             int       `json:"left"`
	Top              int       `json:"top"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	ShowState        ShowState `json:"showState"`
	WorkingDirectory *string   `json:"workingDirectory"`
	FolderPath       *string   `json:"folderPath"`

	// MonitorIndex indexes the owning snapshot's Monitors at capture time.
	// It does not survive topology changes.
	MonitorIndex int `json:"monitorIndex"`

	// ZOrder is 0 for the topmost window and increments downward.
	ZOrder int `json:"zOrder"`
}

// IsMaximized reports whether the record was captured maximized.
func (w WindowRecord) IsMaximized() bool {
	return w.ShowState == ShowMaximized
}

// SessionSnapshot is the persisted result of one capture.
type SessionSnapshot struct {
	CapturedAt time.Time      `json:"capturedAt"`
	Windows    []WindowRecord `json:"windows"`
	Monitors   []Monitor      `json:"monitors"`
}

// NewSnapshot creates an empty snapshot stamped in UTC.
func NewSnapshot(at time.Time) *SessionSnapshot {
	return &SessionSnapshot{
		CapturedAt: at.UTC(),
		Windows:    []WindowRecord{},
		Monitors:   []Monitor{},
	}
}

// Normalize replaces absent lists with empty ones so older documents
// without a monitors key behave like a capture with no displays.
func (s *SessionSnapshot) Normalize() {
	if s.Windows == nil {
		s.Windows = []WindowRecord{}
	}
	if s.Monitors == nil {
		s.Monitors = []Monitor{}
	}
}

// ProcessNames returns the distinct process names in first-seen order,
// compared case-insensitively.
func (s *SessionSnapshot) ProcessNames() []string {
	seen := make(map[string]struct{}, len(s.Windows))
	names := make([]string, 0, len(s.Windows))
	for _, w := range s.Windows {
		key := strings.ToLower(w.ProcessName)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, w.ProcessName)
	}
	return names
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
