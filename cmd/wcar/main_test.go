package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/platform/platformtest"
	"github.com/GriffinCanCode/wcar/internal/screen"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

func fakeDesktop(t *testing.T) (*platformtest.Desktop, *platformtest.Launcher) {
	t.Helper()
	desktop := platformtest.NewDesktop()
	desktop.MonitorList = []types.Monitor{{DeviceName: `\\.\DISPLAY1`, Width: 1920, Height: 1080, IsPrimary: true}}
	w := desktop.Add(platformtest.Window{
		Process:   "cmd",
		Title:     "Administrator: build",
		Placement: platform.Placement{ShowState: types.ShowNormal, Normal: screen.Rect{Left: 100, Top: 80, Width: 900, Height: 500}},
	})
	desktop.Dirs[w.PID] = `C:\src\wcar`

	launcher := platformtest.NewLauncher()
	prev := newDesktop
	newDesktop = func() platform.Desktop { return desktop.Collaborators(launcher) }
	t.Cleanup(func() { newDesktop = prev })
	return desktop, launcher
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootFlags.dataDir, rootFlags.appsFile, rootFlags.logLevel = "", "", ""
	restoreFlags.noRemap, restoreFlags.from, restoreFlags.quiet = false, "", false
	showJSON, appsInit, serveQuiet = false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSaveShowRestore(t *testing.T) {
	_, launcher := fakeDesktop(t)
	dir := t.TempDir()

	out, err := run(t, "--data-dir", dir, "--log-level", "error", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 1 window(s) across 1 monitor(s)")
	assert.FileExists(t, filepath.Join(dir, "session.json"))

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "show", "--json")
	require.NoError(t, err)
	var snap types.SessionSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, `C:\src\wcar`, types.Deref(snap.Windows[0].WorkingDirectory))

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Administrator: build")
	assert.Contains(t, out, "Processes: cmd\n")
	assert.Contains(t, out, `\\.\DISPLAY1`)

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "restore", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Restore complete")
	require.Equal(t, 1, launcher.Starts())
	assert.Equal(t, "cmd.exe", launcher.Commands[0].Executable)
}

func TestShowWithoutSession(t *testing.T) {
	fakeDesktop(t)

	_, err := run(t, "--data-dir", t.TempDir(), "show")
	assert.ErrorContains(t, err, "no saved session")
}

func TestHistoryCommand(t *testing.T) {
	fakeDesktop(t)
	dir := t.TempDir()

	out, err := run(t, "--data-dir", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No archived snapshots")

	_, err = run(t, "--data-dir", dir, "--log-level", "error", "save")
	require.NoError(t, err)

	out, err = run(t, "--data-dir", dir, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	id := strings.Fields(lines[1])[0]
	assert.True(t, strings.HasPrefix(id, "snap_"))

	out, err = run(t, "--data-dir", dir, "--log-level", "error", "restore", "-q", "--from", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Restore complete")
}

func TestRestoreRejectsBadHistoryID(t *testing.T) {
	fakeDesktop(t)

	_, err := run(t, "--data-dir", t.TempDir(), "restore", "--from", "yesterday")
	assert.ErrorContains(t, err, "invalid history id")
}

func TestRestoreReportsErrors(t *testing.T) {
	_, launcher := fakeDesktop(t)
	dir := t.TempDir()

	_, err := run(t, "--data-dir", dir, "--log-level", "error", "save")
	require.NoError(t, err)

	launcher.Fail["cmd.exe"] = os.ErrNotExist
	out, err := run(t, "--data-dir", dir, "--log-level", "error", "restore", "-q")
	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.code)
	assert.Contains(t, out, "error: Failed to start cmd")
}

func TestRestoreWarningsOnlySucceeds(t *testing.T) {
	desktop, launcher := fakeDesktop(t)
	dir := t.TempDir()

	_, err := run(t, "--data-dir", dir, "--log-level", "error", "save")
	require.NoError(t, err)

	launcher.OnStart = func(cmd platform.Command) (*platform.Process, error) {
		pid := desktop.NewPID()
		w := desktop.Add(platformtest.Window{PID: pid, Process: "cmd", Title: "Administrator: build"})
		desktop.RaiseErr[w.Handle] = errors.New("access denied")
		return &platform.Process{PID: pid}, nil
	}

	out, err := run(t, "--data-dir", dir, "--log-level", "error", "restore", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: Z-order restoration failed: access denied")
	assert.Contains(t, out, "Restore complete (1 warning(s))")
	assert.NotContains(t, out, "error:")
}

func TestAppsCommand(t *testing.T) {
	fakeDesktop(t)
	dir := t.TempDir()
	policy := filepath.Join(dir, "apps.toml")

	out, err := run(t, "--data-dir", dir, "--apps", policy, "apps", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+policy)
	assert.Contains(t, out, "powershell")
	assert.FileExists(t, policy)

	out, err = run(t, "--data-dir", dir, "--apps", policy, "apps", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestMonitorsCommand(t *testing.T) {
	fakeDesktop(t)

	out, err := run(t, "--data-dir", t.TempDir(), "monitors")
	require.NoError(t, err)
	assert.Contains(t, out, `\\.\DISPLAY1`)
	assert.Contains(t, out, "0,0 1920x1080")
}
