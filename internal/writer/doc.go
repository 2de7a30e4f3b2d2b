// Package writer implements the optional quote-history persistence.
//
// The history writer:
//   - Consumes successful snapshots from a growable in-memory queue
//   - Batches rows and flushes on size or interval triggers
//   - Inserts with ON CONFLICT DO NOTHING so replayed snapshots are cheap
//
// Persistence is strictly downstream of the coordinator: a database outage
// never affects polling or the cached snapshot.
package writer
