package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/wcar/internal/shared/paths"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

var (
	// ErrCorruptApps reports a policy file that could not be parsed. It was
	// moved aside and the defaults were returned in its place.
	ErrCorruptApps = errors.New("tracked-app file is corrupt")

	// ErrUnknownFormat reports a policy file extension with no codec.
	ErrUnknownFormat = errors.New("unknown tracked-app file format")
)

// appsDocument is the on-disk shape of the policy file.
type appsDocument struct {
	Apps []types.TrackedApp `json:"apps" yaml:"apps" toml:"apps"`
}

type codec struct {
	marshal   func(v interface{}) ([]byte, error)
	unmarshal func(data []byte, v interface{}) error
}

var codecs = map[string]codec{
	".yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".toml": {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
	".json": {
		marshal:   func(v interface{}) ([]byte, error) { return sonic.ConfigStd.MarshalIndent(v, "", "  ") },
		unmarshal: sonic.ConfigStd.Unmarshal,
	},
}

func codecFor(path string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return c, nil
}

// LoadApps reads the tracked-app policy at path. A missing file yields the
// defaults. A file that cannot be parsed is moved to its corrupt name and
// the defaults are returned together with an error wrapping ErrCorruptApps,
// which callers may log and otherwise ignore. Entries without a process
// name are dropped.
func LoadApps(path string) ([]types.TrackedApp, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.DefaultTrackedApps(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc appsDocument
	if err := c.unmarshal(data, &doc); err != nil {
		corrupt := paths.Corrupt(path)
		_ = os.Remove(corrupt)
		if mvErr := os.Rename(path, corrupt); mvErr != nil {
			return types.DefaultTrackedApps(), fmt.Errorf("%w: %v (could not move aside: %v)", ErrCorruptApps, err, mvErr)
		}
		return types.DefaultTrackedApps(), fmt.Errorf("%w: %v (moved to %s)", ErrCorruptApps, err, corrupt)
	}

	apps := make([]types.TrackedApp, 0, len(doc.Apps))
	for _, a := range doc.Apps {
		a.ProcessName = strings.TrimSpace(a.ProcessName)
		if a.ProcessName == "" {
			continue
		}
		if a.Launch == "" {
			a.Launch = types.LaunchSingleton
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// SaveApps writes apps to path in the format its extension names. The file
// is replaced atomically.
func SaveApps(path string, apps []types.TrackedApp) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}

	data, err := c.marshal(appsDocument{Apps: apps})
	if err != nil {
		return fmt.Errorf("encode tracked apps: %w", err)
	}
	return paths.WriteFileAtomic(path, data)
}

// Apps is the live tracked-app policy shared by the CLI, the control API
// and the autosave loop.
type Apps struct {
	path string

	mu   sync.RWMutex
	apps []types.TrackedApp
}

// NewApps creates a policy holder for path. Call Reload to read it.
func NewApps(path string) *Apps {
	return &Apps{path: path, apps: types.DefaultTrackedApps()}
}

// Path returns the policy file location.
func (a *Apps) Path() string {
	return a.path
}

// Reload re-reads the policy file. On a corrupt file the defaults are
// installed and the ErrCorruptApps error is still returned. On any other
// error the current policy is kept.
func (a *Apps) Reload() error {
	apps, err := LoadApps(a.path)
	if apps == nil {
		return err
	}

	a.mu.Lock()
	a.apps = apps
	a.mu.Unlock()
	return err
}

// Current returns a copy of the policy.
func (a *Apps) Current() []types.TrackedApp {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]types.TrackedApp, len(a.apps))
	copy(out, a.apps)
	return out
}

// Save persists apps and installs them.
func (a *Apps) Save(apps []types.TrackedApp) error {
	if err := SaveApps(a.path, apps); err != nil {
		return err
	}

	a.mu.Lock()
	a.apps = append([]types.TrackedApp(nil), apps...)
	a.mu.Unlock()
	return nil
}
