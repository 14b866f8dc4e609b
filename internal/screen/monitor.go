package screen

import (
	"slices"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// PositionTolerance is the per-field slack, in pixels, allowed when
// comparing two monitor configurations.
const PositionTolerance = 10

// PrimaryIndex returns the index of the primary monitor, or -1.
func PrimaryIndex(monitors []types.Monitor) int {
	return slices.IndexFunc(monitors, func(m types.Monitor) bool { return m.IsPrimary })
}

// AssignMonitorIndex returns the index of the monitor containing the
// window's center. Windows whose center is on no monitor fall back to the
// primary monitor, then to 0.
func AssignMonitorIndex(r Rect, monitors []types.Monitor) int {
	cx, cy := r.Center()
	for i, m := range monitors {
		if m.Contains(cx, cy) {
			return i
		}
	}
	if p := PrimaryIndex(monitors); p >= 0 {
		return p
	}
	return 0
}

// ConfigurationsEqual reports whether two monitor lists describe the same
// topology. Order and device names are ignored; positions and sizes may
// differ by up to PositionTolerance.
func ConfigurationsEqual(saved, current []types.Monitor) bool {
	if len(saved) != len(current) {
		return false
	}

	a, b := sortedByPosition(saved), sortedByPosition(current)
	for i := range a {
		if !within(a[i].Left, b[i].Left) ||
			!within(a[i].Top, b[i].Top) ||
			!within(a[i].Width, b[i].Width) ||
			!within(a[i].Height, b[i].Height) {
			return false
		}
	}
	return true
}

func sortedByPosition(monitors []types.Monitor) []types.Monitor {
	out := slices.Clone(monitors)
	slices.SortStableFunc(out, func(x, y types.Monitor) int {
		if x.Left != y.Left {
			return x.Left - y.Left
		}
		return x.Top - y.Top
	})
	return out
}

func within(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= PositionTolerance
}
