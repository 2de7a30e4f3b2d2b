// Package model defines shared data types used across the ISIN quote watcher.
//
// Conventions:
//   - Prices: *float64, nil meaning the upstream did not report a usable price
//   - Timestamps: time.Time in UTC, zero value meaning unknown
//   - IDs: 12-character ISINs for instruments, uuid.UUID for polling sessions
package model
