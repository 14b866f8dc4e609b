//go:build linux

package platform

import (
	"github.com/prometheus/procfs"
)

// procDirectories reads the cwd link the kernel exposes per process. An
// empty mount means procfs.DefaultMountPoint.
type procDirectories struct {
	mount string
}

func (d procDirectories) WorkingDirectory(pid uint32) (string, bool) {
	mount := d.mount
	if mount == "" {
		mount = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(mount)
	if err != nil {
		return "", false
	}
	proc, err := fs.Proc(int(pid))
	if err != nil {
		return "", false
	}
	dir, err := proc.Cwd()
	if err != nil || dir == "" {
		return "", false
	}
	return trimDirectory(dir), true
}
