// Package engine resolves drops and owns the live board.
//
// Resolve is the whole rule set: a pure function from (board, token, target)
// to an Outcome, mutating the board in place. It never fails.
//
// Engine wraps a board for an interactive session. It is the single writer:
// every drop, whether submitted directly with Drop or through Enqueue and the
// Run loop, is resolved under one mutex, so no caller ever observes a board
// halfway through a cancellation. After each drop the engine recomputes the
// counts, saves the record, appends a drop-log entry stamped with the next
// Clock seq, and hands an Update to the update hook.
//
// Ordering comes from the Clock, never from wall time. A session token
// (UUIDv7) ties the log entries of one engine lifetime together.
package engine
