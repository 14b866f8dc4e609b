// Package server runs WCAR in serve mode: the local control API, the
// autosave loop and the tracked-app file watcher, all bound to one context.
package server
