// Package session persists captured window sessions and drives capture and
// restore on behalf of the CLI, the control API and the autosave loop.
//
// Storage Layout (under the data directory):
//   - session.json: the current snapshot
//   - session.prev.json: the snapshot it replaced
//   - session.json.corrupt.json: a snapshot that failed to parse
//   - history/snap_<ULID>.json.zst: compressed archive of every save
//
// Writes go to a temporary file that is renamed into place, so a crash
// never leaves a half-written session.json. Capture and restore are
// serialized by the Manager; the autosave goroutine and HTTP handlers share
// the same lock.
//
// Example Usage:
//
//	manager, err := session.NewManager(layout, capturer, restorer, apps, session.Options{})
//	snap, err := manager.Save(ctx)
//	result, err := manager.Restore(ctx)
package session
