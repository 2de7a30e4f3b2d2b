// Package poller drives the refresh cycles for all watched instruments.
//
// The poller:
//   - Owns one session per instrument, identified by a UUID
//   - Runs a serialized timer loop per session, re-armed from the
//     coordinator's current interval after every cycle
//   - Tracks per-session availability from the last cycle's outcome
//   - Fans successful snapshots out to registered handlers
package poller
