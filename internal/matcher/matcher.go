// Package matcher pairs saved window records with the live windows of a
// relaunched process.
package matcher

import (
	"strings"

	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// Pair links a saved record, by index, to a live window.
type Pair struct {
	SavedIndex int
	Handle     platform.Handle
}

// Match pairs saved records with live windows. Titles are matched first:
// each titled record takes the first unused window whose title contains
// it, or is contained by it, ignoring case. Records still unmatched are
// then paired with the remaining windows in order. Surplus on either side
// is dropped.
func Match(saved []types.WindowRecord, actual []platform.LiveWindow) []Pair {
	pairs := make([]Pair, 0, min(len(saved), len(actual)))
	used := make([]bool, len(actual))
	matched := make([]bool, len(saved))

	for s, rec := range saved {
		if rec.Title == "" {
			continue
		}
		want := strings.ToLower(rec.Title)
		for a, live := range actual {
			if used[a] {
				continue
			}
			got := strings.ToLower(live.Title)
			if strings.Contains(got, want) || strings.Contains(want, got) {
				pairs = append(pairs, Pair{SavedIndex: s, Handle: live.Handle})
				used[a], matched[s] = true, true
				break
			}
		}
	}

	next := 0
	for s := range saved {
		if matched[s] {
			continue
		}
		for next < len(actual) && used[next] {
			next++
		}
		if next >= len(actual) {
			break
		}
		pairs = append(pairs, Pair{SavedIndex: s, Handle: actual[next].Handle})
		used[next] = true
		next++
	}

	return pairs
}
