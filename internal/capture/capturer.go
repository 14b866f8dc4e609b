// Package capture builds a session snapshot from the windows currently on
// the desktop.
package capture

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/family"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// Capturer enumerates top-level windows and records the tracked ones.
type Capturer struct {
	windows  platform.WindowSystem
	monitors platform.MonitorProvider
	dirs     platform.DirectoryReader
	folders  platform.FolderResolver
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a capturer over the given desktop collaborators.
func New(desktop platform.Desktop, logger *logging.Logger) *Capturer {
	return &Capturer{
		windows:  desktop.Windows,
		monitors: desktop.Monitors,
		dirs:     desktop.Directories,
		folders:  desktop.Folders,
		logger:   logging.OrNop(logger).Component("capture"),
		now:      time.Now,
	}
}

// Capture records every visible, tracked window in z-order. It never fails:
// windows that cannot be queried are left out and an enumeration failure
// yields a snapshot with no windows.
func (c *Capturer) Capture(ctx context.Context, apps []types.TrackedApp) *types.SessionSnapshot {
	snap := types.NewSnapshot(c.now())
	snap.Monitors = c.currentMonitors()

	handles, err := c.windows.TopLevelWindows()
	if err != nil {
		c.logger.Warn("Window enumeration failed", zap.Error(err))
		return snap
	}

	self := c.windows.CurrentProcessID()
	names := make(map[uint32]string)

	for _, h := range handles {
		if ctx.Err() != nil {
			c.logger.Warn("Capture cancelled", zap.Int("captured", len(snap.Windows)))
			break
		}

		rec, err := c.captureWindow(h, self, names, apps, snap.Monitors)
		if err != nil {
			c.logger.Debug("Window skipped", zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
			continue
		}
		if rec == nil {
			continue
		}

		rec.ZOrder = len(snap.Windows)
		snap.Windows = append(snap.Windows, *rec)
		c.logger.Debug("Window captured",
			zap.String("process", rec.ProcessName),
			zap.String("title", rec.Title),
			zap.Int("z", rec.ZOrder),
			zap.Int("monitor", rec.MonitorIndex),
		)
	}

	c.logger.Info("Session captured",
		zap.Int("windows", len(snap.Windows)),
		zap.Int("monitors", len(snap.Monitors)),
	)
	return snap
}

// captureWindow returns nil without error for windows that are filtered
// out, and an error for windows that vanished or refused a query.
func (c *Capturer) captureWindow(
	h platform.Handle,
	self uint32,
	names map[uint32]string,
	apps []types.TrackedApp,
	monitors []types.Monitor,
) (rec *types.WindowRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if !c.windows.IsVisible(h) || c.windows.IsToolWindow(h) {
		return nil, nil
	}

	pid, err := c.windows.ProcessID(h)
	if err != nil {
		return nil, err
	}
	if pid == self {
		return nil, nil
	}

	name, ok := names[pid]
	if !ok {
		if name, err = c.windows.ProcessName(pid); err != nil {
			return nil, err
		}
		names[pid] = name
	}

	app, ok := types.FindEnabled(apps, name)
	if !ok {
		return nil, nil
	}

	fam := family.Lookup(app.ProcessName)
	title := c.windows.Title(h)
	if !fam.Accept(title) {
		return nil, nil
	}

	placement, err := c.windows.Placement(h)
	if err != nil {
		return nil, err
	}

	r := placement.Normal
	rec = &types.WindowRecord{
		ProcessName:  name,
		Title:        title,
		Left:         r.Left,
		Top:          r.Top,
		Width:        r.Width,
		Height:       r.Height,
		ShowState:    placement.ShowState,
		MonitorIndex: screen.AssignMonitorIndex(r, monitors),
	}

	fam.Augment(rec, family.Source{
		PID:         pid,
		Handle:      h,
		Directories: c.dirs,
		Folders:     c.folders,
	})

	return rec, nil
}

func (c *Capturer) currentMonitors() (monitors []types.Monitor) {
	defer func() {
		if recover() != nil {
			monitors = []types.Monitor{}
		}
	}()

	if c.monitors == nil {
		return []types.Monitor{}
	}
	if m := c.monitors.Monitors(); m != nil {
		return m
	}
	return []types.Monitor{}
}
