package restore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/family"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/matcher"
	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

const (
	DefaultMainWindowTimeout = 5 * time.Second
	DefaultMainWindowPoll    = 100 * time.Millisecond
)

// Options tunes a Restorer.
type Options struct {
	MainWindowTimeout time.Duration
	MainWindowPoll    time.Duration
	Stabilize         matcher.Options

	// Remap translates window positions onto the current monitors when the
	// topology differs from the one captured.
	Remap bool
}

// DefaultOptions returns the stock timings with remapping enabled.
func DefaultOptions() Options {
	return Options{
		MainWindowTimeout: DefaultMainWindowTimeout,
		MainWindowPoll:    DefaultMainWindowPoll,
		Stabilize:         matcher.DefaultOptions(),
		Remap:             true,
	}
}

// Restorer relaunches saved windows through the injected desktop.
type Restorer struct {
	windows  platform.WindowSystem
	monitors platform.MonitorProvider
	launcher platform.Launcher
	lister   matcher.WindowLister
	logger   *logging.Logger
	opts     Options
}

// New creates a restorer.
func New(desktop platform.Desktop, opts Options, logger *logging.Logger) *Restorer {
	if opts.MainWindowTimeout <= 0 {
		opts.MainWindowTimeout = DefaultMainWindowTimeout
	}
	if opts.MainWindowPoll <= 0 {
		opts.MainWindowPoll = DefaultMainWindowPoll
	}
	return &Restorer{
		windows:  desktop.Windows,
		monitors: desktop.Monitors,
		launcher: desktop.Launcher,
		lister:   matcher.SystemLister{Windows: desktop.Windows},
		logger:   logging.OrNop(logger).Component("restore"),
		opts:     opts,
	}
}

type placedWindow struct {
	handle platform.Handle
	zOrder int
}

// group is the saved windows of one Singleton process.
type group struct {
	name    string
	indices []int
}

// run is the state of a single Restore call.
type run struct {
	snap     *types.SessionSnapshot
	apps     []types.TrackedApp
	result   *types.RestoreResult
	targets  []screen.Rect
	launched map[string]bool
	groups   []*group
	placed   []placedWindow
}

// Restore relaunches every window in snap and restores placement and
// stacking order. It never panics and never returns an error.
func (r *Restorer) Restore(ctx context.Context, snap *types.SessionSnapshot, apps []types.TrackedApp) (result *types.RestoreResult) {
	result = types.NewRestoreResult()
	if snap == nil {
		return result
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Restore aborted", zap.Any("panic", rec))
			result.Fail("Restore aborted: %v", rec)
		}
	}()

	st := &run{
		snap:     snap,
		apps:     apps,
		result:   result,
		targets:  r.targetRects(snap),
		launched: make(map[string]bool),
	}

	for i := range snap.Windows {
		if err := ctx.Err(); err != nil {
			result.Warn("Restore cancelled: %v", err)
			break
		}
		r.restoreWindow(ctx, st, i)
	}

	for _, g := range st.groups {
		if ctx.Err() != nil {
			break
		}
		r.placeGroup(ctx, st, g)
	}

	r.restoreZOrder(st)

	r.logger.Info("Session restored",
		zap.Int("windows", len(snap.Windows)),
		zap.Int("placed", len(st.placed)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

func (r *Restorer) restoreWindow(ctx context.Context, st *run, i int) {
	rec := st.snap.Windows[i]

	defer func() {
		if p := recover(); p != nil {
			st.result.Fail("Failed to restore %s: %v", rec.ProcessName, p)
		}
	}()

	app, ok := types.FindEnabled(st.apps, rec.ProcessName)
	if !ok {
		st.result.Fail("Cannot determine how to launch %s", rec.ProcessName)
		return
	}

	if app.Launch == types.LaunchPerWindow {
		r.restorePerWindow(ctx, st, app, i)
		return
	}

	key := strings.ToLower(rec.ProcessName)
	g := st.groupFor(key, rec.ProcessName)
	g.indices = append(g.indices, i)
	if st.launched[key] {
		return
	}
	st.launched[key] = true

	cmd, ok := r.command(st, app, rec)
	if !ok {
		return
	}
	r.logger.Debug("Launching app", zap.String("process", app.ProcessName), zap.Stringer("command", cmd))
	if _, err := r.launcher.Start(ctx, cmd); err != nil {
		st.result.Fail("Failed to start %s: %v", app.ProcessName, err)
	}
}

func (r *Restorer) restorePerWindow(ctx context.Context, st *run, app types.TrackedApp, i int) {
	rec := st.snap.Windows[i]

	cmd, ok := r.command(st, app, rec)
	if !ok {
		return
	}

	r.logger.Debug("Launching window", zap.String("process", app.ProcessName), zap.Stringer("command", cmd))
	proc, err := r.launcher.Start(ctx, cmd)
	if err != nil {
		st.result.Fail("Failed to start %s: %v", app.ProcessName, err)
		return
	}
	if proc == nil {
		r.logger.Debug("Launch returned no process handle", zap.String("process", app.ProcessName))
		return
	}

	h, ok := r.waitForMainWindow(ctx, proc.PID)
	if !ok {
		st.result.Warn("Window for %s did not appear within %s", app.ProcessName, r.opts.MainWindowTimeout)
		return
	}

	if err := r.place(h, rec, st.targets[i]); err != nil {
		st.result.Warn("Could not position %s window: %v", app.ProcessName, err)
		return
	}
	st.placed = append(st.placed, placedWindow{handle: h, zOrder: rec.ZOrder})
}

func (r *Restorer) command(st *run, app types.TrackedApp, rec types.WindowRecord) (platform.Command, bool) {
	cmd := family.Lookup(app.ProcessName).Command(app, rec)
	if cmd.Executable == "" {
		st.result.Fail("Cannot determine how to launch %s", app.ProcessName)
		return cmd, false
	}
	return cmd, true
}

func (st *run) groupFor(key, name string) *group {
	for _, g := range st.groups {
		if strings.ToLower(g.name) == key {
			return g
		}
	}
	g := &group{name: name}
	st.groups = append(st.groups, g)
	return g
}

// waitForMainWindow polls for the main window of pid until it appears or
// the timeout passes.
func (r *Restorer) waitForMainWindow(ctx context.Context, pid uint32) (platform.Handle, bool) {
	ticker := time.NewTicker(r.opts.MainWindowPoll)
	defer ticker.Stop()
	deadline := time.NewTimer(r.opts.MainWindowTimeout)
	defer deadline.Stop()

	for {
		if h, ok := r.windows.MainWindow(pid); ok {
			return h, true
		}
		select {
		case <-ctx.Done():
			return 0, false
		case <-deadline.C:
			return 0, false
		case <-ticker.C:
		}
	}
}

func (r *Restorer) placeGroup(ctx context.Context, st *run, g *group) {
	defer func() {
		if p := recover(); p != nil {
			st.result.Warn("Window matching failed for %s: %v", g.name, p)
		}
	}()

	actual, err := matcher.WaitForStableWindows(ctx, r.lister, g.name, r.opts.Stabilize)
	if err != nil {
		st.result.Warn("Window matching failed for %s: %v", g.name, err)
		return
	}

	saved := make([]types.WindowRecord, len(g.indices))
	for i, idx := range g.indices {
		saved[i] = st.snap.Windows[idx]
	}

	pairs := matcher.Match(saved, actual)
	r.logger.Debug("Matched windows",
		zap.String("process", g.name),
		zap.Int("saved", len(saved)),
		zap.Int("live", len(actual)),
		zap.Int("matched", len(pairs)),
	)

	for _, p := range pairs {
		idx := g.indices[p.SavedIndex]
		rec := st.snap.Windows[idx]
		if err := r.place(p.Handle, rec, st.targets[idx]); err != nil {
			st.result.Warn("Could not position %s window: %v", g.name, err)
			continue
		}
		st.placed = append(st.placed, placedWindow{handle: p.Handle, zOrder: rec.ZOrder})
	}
}

// place applies the saved show-state and rectangle. A non-maximized window
// that would land entirely outside the primary work area is centered on it.
func (r *Restorer) place(h platform.Handle, rec types.WindowRecord, rect screen.Rect) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()

	if !rec.IsMaximized() {
		if area, ok := r.primaryWorkArea(); ok && !rect.Intersects(area) {
			rect = rect.CenteredIn(area)
		}
	}

	return r.windows.SetPlacement(h, platform.Placement{ShowState: rec.ShowState, Normal: rect})
}

// restoreZOrder raises windows from the back of the saved stack to the
// front, so the window saved at z-order 0 ends up on top.
func (r *Restorer) restoreZOrder(st *run) {
	defer func() {
		if p := recover(); p != nil {
			st.result.Warn("Z-order restoration failed: %v", p)
		}
	}()

	ordered := slices.Clone(st.placed)
	slices.SortStableFunc(ordered, func(a, b placedWindow) int { return b.zOrder - a.zOrder })

	for _, w := range ordered {
		if err := r.windows.BringToTop(w.handle); err != nil {
			st.result.Warn("Z-order restoration failed: %v", err)
		}
	}
}

// targetRects returns the rectangle each saved window should get. With
// remapping enabled and a changed topology, every window with a valid
// monitor index is translated from its saved monitor onto the mapped
// current one. Maximized windows keep their show-state; the translated
// rectangle decides which monitor they maximize on.
func (r *Restorer) targetRects(snap *types.SessionSnapshot) []screen.Rect {
	rects := make([]screen.Rect, len(snap.Windows))
	for i, w := range snap.Windows {
		rects[i] = screen.RectOf(w)
	}

	if !r.opts.Remap || len(snap.Monitors) == 0 {
		return rects
	}
	current := r.currentMonitors()
	if len(current) == 0 || screen.ConfigurationsEqual(snap.Monitors, current) {
		return rects
	}

	mapping := screen.AutoMap(snap.Monitors, current)
	moved := 0
	for i, w := range snap.Windows {
		if w.MonitorIndex < 0 || w.MonitorIndex >= len(snap.Monitors) {
			continue
		}
		saved := snap.Monitors[w.MonitorIndex]
		rects[i] = screen.TranslatePosition(rects[i], saved, current[mapping[w.MonitorIndex]])
		moved++
	}

	r.logger.Info("Monitor layout changed, remapping windows",
		zap.Int("savedMonitors", len(snap.Monitors)),
		zap.Int("currentMonitors", len(current)),
		zap.Ints("mapping", mapping),
		zap.Int("windows", moved),
	)
	return rects
}

func (r *Restorer) currentMonitors() (monitors []types.Monitor) {
	defer func() {
		if recover() != nil {
			monitors = nil
		}
	}()
	if r.monitors == nil {
		return nil
	}
	return r.monitors.Monitors()
}

func (r *Restorer) primaryWorkArea() (area screen.Rect, ok bool) {
	defer func() {
		if recover() != nil {
			area, ok = screen.Rect{}, false
		}
	}()
	if r.monitors == nil {
		return screen.Rect{}, false
	}
	return r.monitors.PrimaryWorkArea()
}
