package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/wcar/internal/domain/session"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wcar/internal/shared/id"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// SessionService is the session manager surface the API drives.
type SessionService interface {
	Save(ctx context.Context) (*types.SessionSnapshot, error)
	Load(ctx context.Context) (*types.SessionSnapshot, error)
	Restore(ctx context.Context) (*types.RestoreResult, error)
	RestoreFrom(ctx context.Context, sid id.SnapshotID) (*types.RestoreResult, error)
	Stats() session.Stats
}

// HistoryLister lists archived snapshots.
type HistoryLister interface {
	List() ([]session.Entry, error)
}

// MonitorLister reports the current display topology.
type MonitorLister interface {
	Monitors() []types.Monitor
}

// AppSource supplies the tracked-app policy.
type AppSource interface {
	Path() string
	Current() []types.TrackedApp
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions SessionService
	history  HistoryLister
	monitors MonitorLister
	apps     AppSource
	metrics  *monitoring.Metrics
	version  string
}

// NewHandlers creates a new handler set
func NewHandlers(
	sessions SessionService,
	history HistoryLister,
	monitors MonitorLister,
	apps AppSource,
	metrics *monitoring.Metrics,
	version string,
) *Handlers {
	return &Handlers{
		sessions: sessions,
		history:  history,
		monitors: monitors,
		apps:     apps,
		metrics:  metrics,
		version:  version,
	}
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "wcar",
		"version": h.version,
		"session": h.sessions.Stats(),
		"metrics": h.metrics.Snapshot(),
	})
}

// GetSession returns the saved snapshot
func (h *Handlers) GetSession(c *gin.Context) {
	snap, err := h.sessions.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SaveSession captures the desktop and persists it
func (h *Handlers) SaveSession(c *gin.Context) {
	snap, err := h.sessions.Save(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"capturedAt": snap.CapturedAt,
		"windows":    len(snap.Windows),
		"monitors":   len(snap.Monitors),
	})
}

// RestoreSession restores the saved session, or the archived snapshot
// named by the "from" query parameter.
func (h *Handlers) RestoreSession(c *gin.Context) {
	var (
		result *types.RestoreResult
		err    error
	)

	// Restore runs to completion even if the client disconnects.
	ctx := context.WithoutCancel(c.Request.Context())

	if from := c.Query("from"); from != "" {
		sid := id.SnapshotID(from)
		if !sid.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot id"})
			return
		}
		result, err = h.sessions.RestoreFrom(ctx, sid)
	} else {
		result, err = h.sessions.Restore(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  result.OK(),
		"warnings": result.Warnings,
		"errors":   result.Errors,
	})
}

// ListMonitors returns the current display topology
func (h *Handlers) ListMonitors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"monitors": h.monitors.Monitors()})
}

// ListApps returns the tracked-app policy in force
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"path": h.apps.Path(),
		"apps": h.apps.Current(),
	})
}

// ListHistory returns archived snapshots, newest first
func (h *Handlers) ListHistory(c *gin.Context) {
	entries, err := h.history.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// fail maps domain errors to status codes.
func (h *Handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, session.ErrCorruptSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "corrupt": true})
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrUnknownSnapshot):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
