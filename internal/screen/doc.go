// Package screen maps window geometry between monitor topologies.
//
// A snapshot records monitors by value. When the displays attached at
// restore time differ from the ones recorded, AutoMap pairs every saved
// monitor with the nearest current one and TranslatePosition rescales a
// window rectangle from the saved monitor onto its partner, keeping it fully
// visible.
//
// Example Usage:
//
//	if !screen.ConfigurationsEqual(snap.Monitors, current) {
//	    mapping := screen.AutoMap(snap.Monitors, current)
//	    saved := snap.Monitors[w.MonitorIndex]
//	    target := current[mapping[w.MonitorIndex]]
//	    r := screen.TranslatePosition(screen.RectOf(w), saved, target)
//	}
package screen
