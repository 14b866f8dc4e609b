package types

import (
	"fmt"
	"strings"
)

// LaunchStrategy selects how an application is relaunched on restore.
type LaunchStrategy string

const (
	// LaunchSingleton starts the process once; it recreates its own windows.
	LaunchSingleton LaunchStrategy = "Singleton"
	// LaunchPerWindow starts one process per saved window.
	LaunchPerWindow LaunchStrategy = "PerWindow"
)

// MarshalText implements encoding.TextMarshaler.
func (l LaunchStrategy) MarshalText() ([]byte, error) {
	if l == "" {
		return []byte(LaunchSingleton), nil
	}
	return []byte(l), nil
}

// UnmarshalText accepts the current names as well as the older
// LaunchOnce/LaunchPerWindow spellings.
func (l *LaunchStrategy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "singleton", "launchonce":
		*l = LaunchSingleton
	case "perwindow", "launchperwindow":
		*l = LaunchPerWindow
	default:
		return fmt.Errorf("unknown launch strategy %q", string(text))
	}
	return nil
}

// TrackedApp is the capture and launch policy for one process name.
type TrackedApp struct {
	DisplayName    string         `json:"displayName" yaml:"displayName" toml:"displayName"`
	ProcessName    string         `json:"processName" yaml:"processName" toml:"processName"`
	ExecutablePath string         `json:"executablePath,omitempty" yaml:"executablePath,omitempty" toml:"executablePath,omitempty"`
	Enabled        bool           `json:"enabled" yaml:"enabled" toml:"enabled"`
	Launch         LaunchStrategy `json:"launch" yaml:"launch" toml:"launch"`
}

// LaunchTarget returns the executable path, or the process name when no
// path is configured.
func (a TrackedApp) LaunchTarget() string {
	if a.ExecutablePath != "" {
		return a.ExecutablePath
	}
	return a.ProcessName
}

// FindEnabled returns the first enabled app whose process name equals name,
// ignoring case.
func FindEnabled(apps []TrackedApp, name string) (TrackedApp, bool) {
	for _, a := range apps {
		if a.Enabled && strings.EqualFold(a.ProcessName, name) {
			return a, true
		}
	}
	return TrackedApp{}, false
}

// DefaultTrackedApps returns the apps tracked when no policy file exists.
func DefaultTrackedApps() []TrackedApp {
	return []TrackedApp{
		{DisplayName: "Google Chrome", ProcessName: "chrome", Enabled: true, Launch: LaunchSingleton},
		{DisplayName: "Visual Studio Code", ProcessName: "Code", Enabled: true, Launch: LaunchSingleton},
		{DisplayName: "Command Prompt", ProcessName: "cmd", Enabled: true, Launch: LaunchPerWindow},
		{DisplayName: "Windows PowerShell", ProcessName: "powershell", Enabled: true, Launch: LaunchPerWindow},
		{DisplayName: "PowerShell", ProcessName: "pwsh", Enabled: true, Launch: LaunchPerWindow},
		{DisplayName: "File Explorer", ProcessName: "explorer", Enabled: true, Launch: LaunchPerWindow},
	}
}
