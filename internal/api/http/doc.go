// Package http exposes the session manager over a local JSON API.
//
// Routes:
//
//	GET  /health                   liveness, session stats, counters
//	GET  /metrics                  Prometheus exposition
//	GET  /api/v1/session           saved snapshot
//	POST /api/v1/session/save      capture and persist
//	POST /api/v1/session/restore   restore; ?from=<history id> picks an archive
//	GET  /api/v1/monitors          current display topology
//	GET  /api/v1/apps              tracked-app policy
//	GET  /api/v1/history           archived snapshots, newest first
//
// Only the /api/v1 group is rate limited.
package http
