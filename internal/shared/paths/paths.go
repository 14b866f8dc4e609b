package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File and directory names inside the data directory
const (
	AppName         = "WCAR"
	SessionFile     = "session.json"
	PrevSessionFile = "session.prev.json"
	AppsFile        = "apps.yaml"
	HistoryDir      = "history"
	HistoryExt      = ".json.zst"
	CorruptSuffix   = ".corrupt"
	TempSuffix      = ".tmp"
)

// DefaultDataDir returns the per-user data directory, %LocalAppData%\WCAR on
// Windows.
func DefaultDataDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// Layout resolves file locations under one data directory
type Layout struct {
	Root string
}

// New returns the layout rooted at dir, or at DefaultDataDir when dir is empty.
func New(dir string) Layout {
	if dir == "" {
		dir = DefaultDataDir()
	}
	return Layout{Root: dir}
}

// Session returns the current snapshot path
func (l Layout) Session() string {
	return filepath.Join(l.Root, SessionFile)
}

// PrevSession returns the backup snapshot path
func (l Layout) PrevSession() string {
	return filepath.Join(l.Root, PrevSessionFile)
}

// Apps returns the default tracked-app policy path
func (l Layout) Apps() string {
	return filepath.Join(l.Root, AppsFile)
}

// History returns the archive directory
func (l Layout) History() string {
	return filepath.Join(l.Root, HistoryDir)
}

// HistoryEntry returns the archive path for a snapshot ID
func (l Layout) HistoryEntry(id string) string {
	return filepath.Join(l.History(), id+HistoryExt)
}

// Ensure creates the data and history directories
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Root, l.History()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Temp returns the staging path used for an atomic write of path
func Temp(path string) string {
	return path + TempSuffix
}

// Corrupt returns the quarantine path for an unreadable file. The original
// extension is repeated so editors still recognize the format.
func Corrupt(path string) string {
	return path + CorruptSuffix + filepath.Ext(path)
}

// HistoryID extracts the snapshot ID from an archive file name
func HistoryID(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, HistoryExt) {
		return "", false
	}
	return strings.TrimSuffix(base, HistoryExt), true
}

// WriteFileAtomic writes data to a temporary sibling and renames it over
// path, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	tmp := Temp(path)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
