// Package family maps process names to the per-application behavior the
// capturer and restorer need: which windows are worth capturing, what extra
// state to record, and how to relaunch a window.
//
// Adding a family means adding a table entry; neither the capturer nor the
// restorer branch on process names.
package family

import (
	"strings"

	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// Kind names a family of applications.
type Kind string

const (
	Generic      Kind = "generic"
	Browser      Kind = "browser"
	FileBrowser  Kind = "file-browser"
	ConsoleShell Kind = "console-shell"
	Editor       Kind = "editor"
)

// DesktopShellTitle is the title of the desktop window owned by the file
// browser process.
const DesktopShellTitle = "Program Manager"

// DefaultShellDirectory is used when a shell window was saved without a
// working directory.
const DefaultShellDirectory = `C:\`

// Source is what an augmentation may consult about a captured window.
type Source struct {
	PID         uint32
	Handle      platform.Handle
	Directories platform.DirectoryReader
	Folders     platform.FolderResolver
}

// Family is the strategy record for one kind of application.
type Family struct {
	Kind Kind

	// Accept reports whether a window with this title should be captured.
	Accept func(title string) bool

	// Augment records family-specific state on a captured window.
	Augment func(rec *types.WindowRecord, src Source)

	// Command builds the launch command used to recreate a window.
	Command func(app types.TrackedApp, rec types.WindowRecord) platform.Command
}

var table = map[string]Family{
	"chrome":     browser,
	"code":       editor,
	"cmd":        cmdShell,
	"powershell": powerShell,
	"pwsh":       powerShell,
	"explorer":   fileBrowser,
}

var generic = Family{
	Kind:    Generic,
	Accept:  acceptAll,
	Augment: noAugment,
	Command: directCommand,
}

// Lookup returns the family for a process name, ignoring case. Unknown
// names get the generic family.
func Lookup(processName string) Family {
	if f, ok := table[strings.ToLower(processName)]; ok {
		return f
	}
	return generic
}

var browser = Family{
	Kind:    Browser,
	Accept:  func(title string) bool { return strings.TrimSpace(title) != "" },
	Augment: noAugment,
	Command: directCommand,
}

var editor = Family{
	Kind:    Editor,
	Accept:  acceptAll,
	Augment: noAugment,
	Command: directCommand,
}

var fileBrowser = Family{
	Kind:   FileBrowser,
	Accept: func(title string) bool { return title != "" && title != DesktopShellTitle },
	Augment: func(rec *types.WindowRecord, src Source) {
		if src.Folders == nil {
			return
		}
		if path, ok := src.Folders.FolderPath(src.Handle); ok {
			rec.FolderPath = types.StringPtr(path)
		}
	},
	Command: func(app types.TrackedApp, rec types.WindowRecord) platform.Command {
		exe := app.ExecutablePath
		if exe == "" {
			exe = "explorer.exe"
		}
		if rec.FolderPath == nil {
			return platform.Command{Executable: exe}
		}
		return platform.Command{Executable: exe, Args: `"` + *rec.FolderPath + `"`}
	},
}

var cmdShell = Family{
	Kind:    ConsoleShell,
	Accept:  acceptAll,
	Augment: readWorkingDirectory,
	Command: func(_ types.TrackedApp, rec types.WindowRecord) platform.Command {
		return platform.Command{
			Executable: "cmd.exe",
			Args:       `/K cd /d "` + shellDirectory(rec) + `"`,
		}
	},
}

var powerShell = Family{
	Kind:    ConsoleShell,
	Accept:  acceptAll,
	Augment: readWorkingDirectory,
	Command: func(app types.TrackedApp, rec types.WindowRecord) platform.Command {
		exe := app.ExecutablePath
		if exe == "" {
			exe = strings.ToLower(app.ProcessName) + ".exe"
		}
		return platform.Command{
			Executable: exe,
			Args:       `-NoExit -Command "Set-Location '` + shellDirectory(rec) + `'"`,
		}
	},
}

func acceptAll(string) bool { return true }

func noAugment(*types.WindowRecord, Source) {}

func directCommand(app types.TrackedApp, _ types.WindowRecord) platform.Command {
	return platform.Command{Executable: app.LaunchTarget()}
}

func readWorkingDirectory(rec *types.WindowRecord, src Source) {
	if src.Directories == nil {
		return
	}
	if dir, ok := src.Directories.WorkingDirectory(src.PID); ok {
		rec.WorkingDirectory = types.StringPtr(dir)
	}
}

func shellDirectory(rec types.WindowRecord) string {
	if rec.WorkingDirectory == nil {
		return DefaultShellDirectory
	}
	return *rec.WorkingDirectory
}
