// Package store persists per-room conversion selections and the transfer-job
// ledger using SQLite.
//
// # Data Models
//
//   - Selection: the conversion direction a room most recently picked.
//     Created on first pick, overwritten on every subsequent pick, never
//     expired or deleted.
//   - Job: one document's end-to-end path from download through conversion
//     to upload and cleanup. Jobs are an audit trail, not a work queue; the
//     bot never reads them back to drive behavior.
//
// # SQLite Configuration
//
// The store uses SQLite (modernc.org/sqlite) with WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// The schema is created automatically on initialization.
//
// # Testing
//
// Use NewMemoryStore() for handler tests, or NewSQLiteStore with a path
// under t.TempDir() for integration tests against real SQLite.
package store
