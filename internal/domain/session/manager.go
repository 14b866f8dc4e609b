package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wcar/internal/shared/id"
	"github.com/GriffinCanCode/wcar/internal/shared/paths"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var (
	// ErrNoSession is returned when there is no usable saved session.
	ErrNoSession = errors.New("no saved session")

	// ErrCorruptSession accompanies ErrNoSession when session.json could
	// not be parsed and was moved aside.
	ErrCorruptSession = errors.New("saved session is corrupt")
)

// Capturer records the current desktop.
type Capturer interface {
	Capture(ctx context.Context, apps []types.TrackedApp) *types.SessionSnapshot
}

// Restorer rebuilds a desktop from a snapshot.
type Restorer interface {
	Restore(ctx context.Context, snap *types.SessionSnapshot, apps []types.TrackedApp) *types.RestoreResult
}

// AppSource supplies the tracked-app policy in force.
type AppSource interface {
	Current() []types.TrackedApp
}

// Options configures a Manager.
type Options struct {
	// HistoryKeep is how many archived snapshots to retain. Zero disables
	// the archive.
	HistoryKeep int
	Metrics     *monitoring.Metrics
	Logger      *logging.Logger
}

// Stats reports manager activity.
type Stats struct {
	HasSession   bool       `json:"hasSession"`
	LastSaved    *time.Time `json:"lastSaved,omitempty"`
	LastRestored *time.Time `json:"lastRestored,omitempty"`
}

// Manager handles session persistence
type Manager struct {
	layout   paths.Layout
	capturer Capturer
	restorer Restorer
	apps     AppSource
	history  *History
	metrics  *monitoring.Metrics
	logger   *logging.Logger

	mu           sync.Mutex
	lastSaved    *time.Time
	lastRestored *time.Time
}

// NewManager creates a new session manager and its data directories.
func NewManager(layout paths.Layout, capturer Capturer, restorer Restorer, apps AppSource, opts Options) (*Manager, error) {
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	history, err := NewHistory(layout, opts.HistoryKeep)
	if err != nil {
		return nil, err
	}

	return &Manager{
		layout:   layout,
		capturer: capturer,
		restorer: restorer,
		apps:     apps,
		history:  history,
		metrics:  opts.Metrics,
		logger:   logging.OrNop(opts.Logger).Component("session"),
	}, nil
}

// Close releases the history codecs.
func (m *Manager) Close() {
	m.history.Close()
}

// History exposes the snapshot archive.
func (m *Manager) History() *History {
	return m.history
}

// Save captures the desktop and persists it as the current session. The
// previous session is kept as a backup.
func (m *Manager) Save(ctx context.Context) (*types.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	timer := monitoring.NewTimer(m.metrics, "save")
	snap := m.capturer.Capture(ctx, m.apps.Current())
	m.metrics.RecordCapture(len(snap.Windows), len(snap.Monitors))

	err := m.persist(snap)
	d := timer.StopErr(err)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m.lastSaved = &now
	m.logger.Info("Session saved",
		zap.Int("windows", len(snap.Windows)),
		zap.Int("monitors", len(snap.Monitors)),
		zap.Duration("took", d),
	)
	return snap, nil
}

func (m *Manager) persist(snap *types.SessionSnapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	current := m.layout.Session()
	if err := copyFile(current, m.layout.PrevSession()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("back up session: %w", err)
	}
	if err := paths.WriteFileAtomic(current, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if !m.history.Enabled() {
		return nil
	}
	entry, err := m.history.Archive(data, snap.CapturedAt)
	if err != nil {
		// The session itself is safe; a missing archive is not worth failing the save.
		m.logger.Warn("Snapshot archive failed", zap.Error(err))
		return nil
	}
	m.logger.Debug("Snapshot archived", zap.Stringer("id", entry.ID), zap.Int64("bytes", entry.Size))
	if entries, err := m.history.List(); err == nil {
		m.metrics.SetHistoryEntries(len(entries))
	}
	return nil
}

// Load returns the current session. A missing file yields ErrNoSession. A
// file that cannot be parsed is moved aside and yields an error matching
// both ErrNoSession and ErrCorruptSession.
func (m *Manager) Load(ctx context.Context) (*types.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (*types.SessionSnapshot, error) {
	path := m.layout.Session()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	snap, err := Decode(data)
	if err == nil {
		m.logger.Debug("Session loaded", zap.Int("windows", len(snap.Windows)), zap.Time("captured_at", snap.CapturedAt))
		return snap, nil
	}

	corrupt := paths.Corrupt(path)
	_ = os.Remove(corrupt)
	if mvErr := os.Rename(path, corrupt); mvErr != nil {
		m.logger.Error("Could not move corrupt session aside", zap.String("path", path), zap.Error(mvErr))
	} else {
		m.logger.Warn("Corrupt session moved aside", zap.String("path", corrupt), zap.Error(err))
	}
	m.metrics.IncCorruptSessions()
	return nil, fmt.Errorf("%w: %w", ErrNoSession, ErrCorruptSession)
}

// Restore relaunches the current session.
func (m *Manager) Restore(ctx context.Context) (*types.RestoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.load()
	if err != nil {
		return nil, err
	}
	return m.restore(ctx, snap), nil
}

// RestoreFrom relaunches an archived snapshot.
func (m *Manager) RestoreFrom(ctx context.Context, sid id.SnapshotID) (*types.RestoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.history.Read(sid)
	if err != nil {
		return nil, err
	}
	return m.restore(ctx, snap), nil
}

func (m *Manager) restore(ctx context.Context, snap *types.SessionSnapshot) *types.RestoreResult {
	timer := monitoring.NewTimer(m.metrics, "restore")
	result := m.restorer.Restore(ctx, snap, m.apps.Current())

	status := "success"
	if !result.OK() {
		status = "degraded"
	}
	d := timer.Stop(status)
	m.metrics.RecordRestore(len(result.Warnings), len(result.Errors))

	now := time.Now()
	m.lastRestored = &now
	m.logger.Info("Session restored",
		zap.Int("windows", len(snap.Windows)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("took", d),
	)
	for _, w := range result.Warnings {
		m.logger.Warn("Restore warning", zap.String("detail", w))
	}
	for _, e := range result.Errors {
		m.logger.Error("Restore error", zap.String("detail", e))
	}
	return result
}

// Stats returns session manager statistics
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := os.Stat(m.layout.Session())
	return Stats{
		HasSession:   err == nil,
		LastSaved:    m.lastSaved,
		LastRestored: m.lastRestored,
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
