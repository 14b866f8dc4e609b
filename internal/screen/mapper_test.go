package screen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

func mon(left, top, width, height int, primary bool) types.Monitor {
	return types.Monitor{Left: left, Top: top, Width: width, Height: height, IsPrimary: primary}
}

func TestAutoMap(t *testing.T) {
	tests := []struct {
		name     string
		saved    []types.Monitor
		current  []types.Monitor
		expected []int
	}{
		{
			name:     "identical topologies map to identity",
			saved:    []types.Monitor{mon(0, 0, 1920, 1080, true), mon(1920, 0, 1920, 1080, false)},
			current:  []types.Monitor{mon(0, 0, 1920, 1080, true), mon(1920, 0, 1920, 1080, false)},
			expected: []int{0, 1},
		},
		{
			name: "fewer current monitors consolidate to nearest",
			saved: []types.Monitor{
				mon(0, 0, 1920, 1080, true),
				mon(1920, 0, 1920, 1080, false),
				mon(3840, 0, 1920, 1080, false),
			},
			current:  []types.Monitor{mon(0, 0, 1920, 1080, true), mon(1920, 0, 1920, 1080, false)},
			expected: []int{0, 1, 1},
		},
		{
			name:     "empty saved returns empty",
			saved:    []types.Monitor{},
			current:  []types.Monitor{mon(0, 0, 1920, 1080, true)},
			expected: []int{},
		},
		{
			name:     "empty current returns zeros",
			saved:    []types.Monitor{mon(0, 0, 1920, 1080, true), mon(1920, 0, 1920, 1080, false)},
			current:  nil,
			expected: []int{0, 0},
		},
		{
			name:     "far away monitor falls back to primary",
			saved:    []types.Monitor{mon(50000, 50000, 1920, 1080, false)},
			current:  []types.Monitor{mon(-1920, 0, 1920, 1080, false), mon(0, 0, 1920, 1080, true)},
			expected: []int{1},
		},
		{
			name:     "far away monitor keeps nearest without primary",
			saved:    []types.Monitor{mon(50000, 50000, 1920, 1080, false)},
			current:  []types.Monitor{mon(0, 0, 1920, 1080, false), mon(1920, 0, 1920, 1080, false)},
			expected: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AutoMap(tt.saved, tt.current))
		})
	}
}

func TestTranslatePosition(t *testing.T) {
	tests := []struct {
		name     string
		rect     Rect
		saved    types.Monitor
		current  types.Monitor
		expected Rect
	}{
		{
			name:     "same monitor preserves position",
			rect:     Rect{Left: 100, Top: 200, Width: 800, Height: 600},
			saved:    mon(0, 0, 1920, 1080, true),
			current:  mon(0, 0, 1920, 1080, true),
			expected: Rect{Left: 100, Top: 200, Width: 800, Height: 600},
		},
		{
			name:     "4K to 1080p scales proportionally",
			rect:     Rect{Left: 0, Top: 0, Width: 3840, Height: 2160},
			saved:    mon(0, 0, 3840, 2160, true),
			current:  mon(0, 0, 1920, 1080, true),
			expected: Rect{Left: 0, Top: 0, Width: 1920, Height: 1080},
		},
		{
			name:     "offset monitors translate origin",
			rect:     Rect{Left: 2880, Top: 540, Width: 960, Height: 540},
			saved:    mon(1920, 0, 1920, 1080, false),
			current:  mon(-1920, 0, 1920, 1080, false),
			expected: Rect{Left: -960, Top: 540, Width: 960, Height: 540},
		},
		{
			name:     "tiny windows are floored",
			rect:     Rect{Left: 0, Top: 0, Width: 60, Height: 60},
			saved:    mon(0, 0, 3840, 2160, true),
			current:  mon(0, 0, 1920, 1080, true),
			expected: Rect{Left: 0, Top: 0, Width: 50, Height: 50},
		},
		{
			name:     "zero area saved monitor keeps size at origin",
			rect:     Rect{Left: 300, Top: 300, Width: 640, Height: 480},
			saved:    mon(0, 0, 0, 0, false),
			current:  mon(1920, 0, 1920, 1080, false),
			expected: Rect{Left: 1920, Top: 0, Width: 640, Height: 480},
		},
		{
			name:     "window hanging off the edge is pulled back in",
			rect:     Rect{Left: 1800, Top: 1000, Width: 800, Height: 600},
			saved:    mon(0, 0, 1920, 1080, true),
			current:  mon(0, 0, 1920, 1080, true),
			expected: Rect{Left: 1120, Top: 480, Width: 800, Height: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TranslatePosition(tt.rect, tt.saved, tt.current))
		})
	}
}

func TestTranslatePositionAlwaysInsideTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		saved := mon(rng.Intn(8000)-4000, rng.Intn(4000)-2000, rng.Intn(4000)+1, rng.Intn(3000)+1, false)
		current := mon(rng.Intn(8000)-4000, rng.Intn(4000)-2000, rng.Intn(4000)+MinWindowSize, rng.Intn(3000)+MinWindowSize, false)
		r := Rect{
			Left:   rng.Intn(20000) - 10000,
			Top:    rng.Intn(20000) - 10000,
			Width:  rng.Intn(6000),
			Height: rng.Intn(6000),
		}

		got := TranslatePosition(r, saved, current)

		if !assert.GreaterOrEqual(t, got.Left, current.Left) ||
			!assert.GreaterOrEqual(t, got.Top, current.Top) ||
			!assert.LessOrEqual(t, got.Right(), current.Left+current.Width) ||
			!assert.LessOrEqual(t, got.Bottom(), current.Top+current.Height) ||
			!assert.GreaterOrEqual(t, got.Width, MinWindowSize) ||
			!assert.GreaterOrEqual(t, got.Height, MinWindowSize) {
			t.Fatalf("iteration %d: %+v from %+v onto %+v gave %+v", i, r, saved, current, got)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	area := Rect{Left: 0, Top: 0, Width: 1920, Height: 1040}

	assert.True(t, Rect{Left: 100, Top: 100, Width: 10, Height: 10}.Intersects(area))
	assert.True(t, Rect{Left: 1920, Top: 0, Width: 10, Height: 10}.Intersects(area), "touching edges count")
	assert.False(t, Rect{Left: 1921, Top: 0, Width: 10, Height: 10}.Intersects(area))
	assert.False(t, Rect{Left: -500, Top: -500, Width: 100, Height: 100}.Intersects(area))
}

func TestRectCenteredIn(t *testing.T) {
	r := Rect{Left: 5000, Top: 5000, Width: 800, Height: 600}.CenteredIn(Rect{Left: 0, Top: 0, Width: 1920, Height: 1040})
	assert.Equal(t, Rect{Left: 560, Top: 220, Width: 800, Height: 600}, r)
}
