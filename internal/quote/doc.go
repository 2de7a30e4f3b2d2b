// Package quote implements the Adaptive Coordinator component.
//
// The coordinator owns one instrument's cached snapshot and poll interval
// and drives each refresh cycle:
//   - Unknown market state: always fetch (with missing-price fallback),
//     never touch the user-configured interval
//   - Open: fetch with fallback at the fast interval
//   - Closed: serve the cached snapshot without a network call; a single
//     seed fetch (no fallback) runs only when no cache exists yet
//
// Fetch failures are never swallowed and never overwrite cached data. The
// scheduling driver serializes Refresh calls; the coordinator knows
// nothing about timers or sibling instruments.
package quote
