//go:build windows

package platform

// Native returns the Win32 implementations.
func Native() Desktop {
	return Desktop{
		Windows:     win32Windows{},
		Monitors:    win32Monitors{},
		Directories: pebReader{},
		Folders:     newShellFolders(),
		Launcher:    shellLauncher{},
	}
}
