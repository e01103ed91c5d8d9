package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/roach88/balance/internal/record"
)

// LoadRecord reads the persisted record.
// Returns a nil record when nothing has been saved yet.
func (s *Store) LoadRecord(ctx context.Context) (record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM record ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	defer rows.Close()

	var rec record.Record
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("load record: scan: %w", err)
		}
		if rec == nil {
			rec = make(record.Record)
		}
		rec[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}

	return rec, nil
}

// SaveRecord replaces the persisted record with rec in one transaction.
func (s *Store) SaveRecord(ctx context.Context, rec record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save record: begin: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRecord(ctx, tx, rec); err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save record: commit: %w", err)
	}
	return nil
}

func replaceRecord(ctx context.Context, tx *sql.Tx, rec record.Record) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM record`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO record (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, rec[k]); err != nil {
			return fmt.Errorf("insert %q: %w", k, err)
		}
	}
	return nil
}

// ClearRecord deletes the persisted record. The next load yields defaults.
func (s *Store) ClearRecord(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM record`); err != nil {
		return fmt.Errorf("clear record: %w", err)
	}
	return nil
}
