// Package database manages the optional Postgres connection used for
// quote-history persistence. The watcher runs without it; only the
// history writer depends on a pool.
package database
