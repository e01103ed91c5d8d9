package engine

import "github.com/google/uuid"

// UUIDv7Generator generates time-sortable UUIDv7 session tokens.
//
// A session is one engine lifetime (one CLI invocation, one TUI run). Every
// drop-log row carries the session that produced it.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
