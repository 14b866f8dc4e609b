// Package types provides shared data structures for window session capture
// and restore.
//
// This package defines the values that flow between the capturer, the
// restorer, the session store and the control API, so every component agrees
// on one wire shape.
//
// Core Types:
//   - Monitor: A physical display at capture or restore time
//   - WindowRecord: One captured top-level window
//   - SessionSnapshot: The persisted result of a capture
//   - TrackedApp: Per-application capture and launch policy
//   - RestoreResult: Aggregated warnings and errors of a restore
//
// Enumerations:
//   - ShowState: Legacy numeric show-state codes (0,1,2,3,4,5,9)
//   - LaunchStrategy: Singleton or PerWindow, serialized as a string
//
// Example Usage:
//
//	snap := types.NewSnapshot(time.Now())
//	snap.Monitors = provider.Monitors()
//	snap.Windows = append(snap.Windows, types.WindowRecord{
//	    ProcessName: "cmd",
//	    ShowState:   types.ShowNormal,
//	    ZOrder:      0,
//	})
package types
