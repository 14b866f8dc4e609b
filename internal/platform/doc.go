// Package platform isolates every operating-system call the capture and
// restore engine needs behind small interfaces.
//
// Components:
//   - WindowSystem: top-level window enumeration, placement and stacking
//   - MonitorProvider: display topology and the primary work area
//   - DirectoryReader: a foreign process's current working directory
//   - FolderResolver: the folder shown by a file-browser window
//   - Launcher: process start returning a handle when one is available
//
// Native returns the implementations for the running operating system. On
// Windows they talk to user32, shell32 and ntdll through
// golang.org/x/sys/windows. Elsewhere the window system reports
// ErrUnsupported, monitors come back empty and launches use os/exec, so the
// engine still runs and degrades instead of failing.
//
// Tests substitute fakes for every interface.
package platform
