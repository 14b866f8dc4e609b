//go:build !windows && !linux

package platform

type procDirectories = NoDirectories
