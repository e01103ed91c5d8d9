package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
)

// ErrSeqConflict is returned when a drop is written under a seq that is
// already in the log.
var ErrSeqConflict = errors.New("seq already logged")

// DropEntry is one row of the drop log.
type DropEntry struct {
	Seq       int64             `json:"seq"`
	Session   string            `json:"session"`
	TokenID   board.TokenID     `json:"token_id"`
	Color     string            `json:"color"`
	Source    board.ContainerID `json:"source"`
	Target    board.ContainerID `json:"target"`
	Moved     bool              `json:"moved"`
	Cancelled bool              `json:"cancelled"`
	Digest    string            `json:"digest"` // digest of the record saved after this drop
}

// AppendDrop inserts a drop log entry.
// Returns ErrSeqConflict when the seq is already logged.
func (s *Store) AppendDrop(ctx context.Context, e DropEntry) error {
	if err := insertDrop(ctx, s.db, e); err != nil {
		return fmt.Errorf("append drop: %w", err)
	}
	return nil
}

// CommitDrop saves rec and appends e in one transaction. On a seq conflict
// neither write is kept.
func (s *Store) CommitDrop(ctx context.Context, rec record.Record, e DropEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit drop %d: begin: %w", e.Seq, err)
	}
	defer tx.Rollback()

	if err := replaceRecord(ctx, tx, rec); err != nil {
		return fmt.Errorf("commit drop %d: record: %w", e.Seq, err)
	}
	if err := insertDrop(ctx, tx, e); err != nil {
		return fmt.Errorf("commit drop %d: %w", e.Seq, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit drop %d: commit: %w", e.Seq, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDrop(ctx context.Context, db execer, e DropEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO drops
		(seq, session, token_id, color, source, target, moved, cancelled, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Seq,
		e.Session,
		int64(e.TokenID),
		e.Color,
		string(e.Source),
		string(e.Target),
		boolToInt(e.Moved),
		boolToInt(e.Cancelled),
		e.Digest,
	)
	if isSeqConflict(err) {
		return fmt.Errorf("seq %d: %w", e.Seq, ErrSeqConflict)
	}
	return err
}

func isSeqConflict(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ReadDrops returns the most recent limit entries in ascending seq order.
// An empty session matches every session; limit <= 0 returns everything.
func (s *Store) ReadDrops(ctx context.Context, session string, limit int) ([]DropEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, session, token_id, color, source, target, moved, cancelled, digest
		FROM (
			SELECT * FROM drops
			WHERE ? = '' OR session = ?
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC
	`, session, session, limit)
	if err != nil {
		return nil, fmt.Errorf("read drops: %w", err)
	}
	defer rows.Close()

	var entries []DropEntry
	for rows.Next() {
		var (
			e                DropEntry
			tokenID          int64
			source, target   string
			moved, cancelled int
		)
		if err := rows.Scan(&e.Seq, &e.Session, &tokenID, &e.Color, &source, &target, &moved, &cancelled, &e.Digest); err != nil {
			return nil, fmt.Errorf("read drops: scan: %w", err)
		}
		e.TokenID = board.TokenID(tokenID)
		e.Source = board.ContainerID(source)
		e.Target = board.ContainerID(target)
		e.Moved = moved == 1
		e.Cancelled = cancelled == 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read drops: %w", err)
	}
	return entries, nil
}

// LastSeq returns the highest seq in the drop log, or 0 when it is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM drops`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

// ClearDrops empties the drop log.
func (s *Store) ClearDrops(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drops`); err != nil {
		return fmt.Errorf("clear drops: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
