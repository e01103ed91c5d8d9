package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDrop creates a drop entry with minimal required fields.
func createTestDrop(seq int64, session string) DropEntry {
	return DropEntry{
		Seq:     seq,
		Session: session,
		TokenID: 1,
		Color:   "red",
		Source:  "red-stack",
		Target:  "balance-area",
		Moved:   true,
		Digest:  "test-digest",
	}
}
