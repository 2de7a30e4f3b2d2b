// Package server exposes the watcher's HTTP and WebSocket surface.
//
// The server:
//   - Serves health, version, and per-session quote endpoints
//   - Accepts interval updates for running sessions
//   - Proxies exchange listings and chart series lookups
//   - Broadcasts every successful snapshot to WebSocket subscribers
package server
