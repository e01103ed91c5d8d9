// Package store provides SQLite-backed host storage for the balance widget.
//
// The store keeps two things:
//   - record: the flat key/value record produced by record.Save. Saving
//     replaces the whole record in one transaction, so a reader never sees
//     a mix of two snapshots.
//   - drops: an append-only log of processed drops. Each row carries the
//     logical seq, the session that produced it, the outcome and the digest
//     of the record written after it.
//
// # Ordering
//
// The drop log is ordered by seq (a logical clock), never by wall time.
// LastSeq lets a new engine resume the clock after a restart.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
