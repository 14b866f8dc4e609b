package screen

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

const (
	// DistanceThreshold is the corner distance beyond which a saved monitor
	// is treated as having no nearby counterpart and is sent to the primary
	// monitor instead. The value has no derivation; it is tunable.
	DistanceThreshold = 10000.0

	// MinWindowSize is the floor applied to translated widths and heights.
	MinWindowSize = 50
)

// Rect is a window rectangle in virtual-desktop coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// RectOf returns the rectangle stored in a window record.
func RectOf(w types.WindowRecord) Rect {
	return Rect{Left: w.Left, Top: w.Top, Width: w.Width, Height: w.Height}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Center returns the integer center point.
func (r Rect) Center() (int, int) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Left > o.Right() || r.Right() < o.Left || r.Top > o.Bottom() || r.Bottom() < o.Top)
}

// CenteredIn returns r moved so its center matches the center of area.
func (r Rect) CenteredIn(area Rect) Rect {
	r.Left = area.Left + (area.Width-r.Width)/2
	r.Top = area.Top + (area.Height-r.Height)/2
	return r
}

func boundsOf(m types.Monitor) Rect {
	return Rect{Left: m.Left, Top: m.Top, Width: m.Width, Height: m.Height}
}

// AutoMap returns, for each saved monitor, the index of the current monitor
// whose top-left corner is nearest. A saved monitor further than
// DistanceThreshold from every current one maps to the current primary.
func AutoMap(saved, current []types.Monitor) []int {
	result := make([]int, len(saved))
	if len(current) == 0 {
		return result
	}

	primary := PrimaryIndex(current)

	for i, s := range saved {
		origin := []float64{float64(s.Left), float64(s.Top)}
		best, bestDist := 0, math.MaxFloat64

		for j, c := range current {
			d := floats.Distance(origin, []float64{float64(c.Left), float64(c.Top)}, 2)
			if d < bestDist {
				best, bestDist = j, d
			}
		}

		if bestDist > DistanceThreshold && primary >= 0 {
			best = primary
		}
		result[i] = best
	}

	return result
}

// TranslatePosition rescales r from the saved monitor onto the current one.
// The result is at least MinWindowSize on each axis, never larger than the
// current monitor, and is clamped to lie inside it. A saved monitor with no area leaves the
// window unscaled at the current monitor's origin.
func TranslatePosition(r Rect, saved, current types.Monitor) Rect {
	if saved.Width <= 0 || saved.Height <= 0 {
		return Rect{Left: current.Left, Top: current.Top, Width: r.Width, Height: r.Height}
	}

	relX := float64(r.Left-saved.Left) / float64(saved.Width)
	relY := float64(r.Top-saved.Top) / float64(saved.Height)
	relW := float64(r.Width) / float64(saved.Width)
	relH := float64(r.Height) / float64(saved.Height)

	left := int(float64(current.Left) + relX*float64(current.Width))
	top := int(float64(current.Top) + relY*float64(current.Height))
	width := fit(int(relW*float64(current.Width)), current.Width)
	height := fit(int(relH*float64(current.Height)), current.Height)

	left = max(current.Left, min(left, current.Left+current.Width-width))
	top = max(current.Top, min(top, current.Top+current.Height-height))

	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// fit applies the MinWindowSize floor, then caps the size at the monitor's
// extent.
func fit(size, extent int) int {
	size = max(MinWindowSize, size)
	if extent > 0 {
		size = min(size, extent)
	}
	return size
}
