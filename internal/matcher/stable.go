package matcher

import (
	"context"
	"time"

	"github.com/GriffinCanCode/wcar/internal/platform"
)

const (
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultStabilityWindow = 1000 * time.Millisecond
	DefaultTimeout         = 15 * time.Second
)

// Options tunes WaitForStableWindows. Zero fields take the defaults.
type Options struct {
	PollInterval    time.Duration
	StabilityWindow time.Duration
	Timeout         time.Duration
}

// DefaultOptions returns the stock polling parameters.
func DefaultOptions() Options {
	return Options{
		PollInterval:    DefaultPollInterval,
		StabilityWindow: DefaultStabilityWindow,
		Timeout:         DefaultTimeout,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.StabilityWindow <= 0 {
		o.StabilityWindow = d.StabilityWindow
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// WindowLister lists the visible windows of a process by name.
type WindowLister interface {
	ProcessWindows(processName string) ([]platform.LiveWindow, error)
}

// SystemLister lists windows through a platform.WindowSystem.
type SystemLister struct {
	Windows platform.WindowSystem
}

func (l SystemLister) ProcessWindows(processName string) ([]platform.LiveWindow, error) {
	return platform.ProcessWindows(l.Windows, processName)
}

// WaitForStableWindows polls the windows of processName until their count
// has stayed the same for the stability window, then returns them. On
// timeout or cancellation it returns the latest observation instead of
// failing. An error is returned only when no poll ever succeeded.
func WaitForStableWindows(ctx context.Context, lister WindowLister, processName string, opts Options) ([]platform.LiveWindow, error) {
	opts = opts.withDefaults()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()

	var (
		latest      []platform.LiveWindow
		lastErr     error
		seen        bool
		prevCount   = -1
		stableSince time.Time
	)

	observe := func() {
		windows, err := lister.ProcessWindows(processName)
		if err != nil {
			lastErr = err
			return
		}
		latest, seen = titled(windows), true
	}

	result := func() ([]platform.LiveWindow, error) {
		if !seen {
			return nil, lastErr
		}
		return latest, nil
	}

	for {
		observe()

		if seen && len(latest) == prevCount {
			now := time.Now()
			if stableSince.IsZero() {
				stableSince = now
			} else if now.Sub(stableSince) >= opts.StabilityWindow {
				return latest, nil
			}
		} else if seen {
			prevCount = len(latest)
			stableSince = time.Time{}
		}

		select {
		case <-ctx.Done():
			return result()
		case <-deadline.C:
			observe()
			return result()
		case <-ticker.C:
		}
	}
}

func titled(windows []platform.LiveWindow) []platform.LiveWindow {
	out := make([]platform.LiveWindow, 0, len(windows))
	for _, w := range windows {
		if w.Title != "" {
			out = append(out, w)
		}
	}
	return out
}
