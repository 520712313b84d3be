package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

func (j *SQLite) AddNote(ctx context.Context, n Note) (Note, error) {
	if n.Kind != Weekly && n.Kind != Monthly {
		return Note{}, fmt.Errorf("unknown note kind %q", n.Kind)
	}
	n.Period = strings.TrimSpace(n.Period)
	if n.Period == "" {
		return Note{}, errors.New("note period is required")
	}
	n.ID = id.New()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = j.now()
	}
	if err := insertNote(ctx, j.db, n); err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func insertNote(ctx context.Context, x execer, n Note) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO notes (id, owner, kind, period, lesson, plan, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Owner, string(n.Kind), n.Period, n.Lesson, n.Plan, n.CreatedAt)
	return err
}

// ListNotes returns the owner's notes of one kind, newest first.
func (j *SQLite) ListNotes(ctx context.Context, owner string, kind NoteKind) ([]Note, error) {
	return listNotes(ctx, j.db, owner, kind)
}

func listNotes(ctx context.Context, q querier, owner string, kind NoteKind) ([]Note, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, owner, kind, period, lesson, plan, created_at
		FROM notes
		WHERE owner = ? AND kind = ?
		ORDER BY created_at DESC, id DESC`, owner, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n Note
			k string
		)
		if err := rows.Scan(&n.ID, &n.Owner, &k, &n.Period, &n.Lesson, &n.Plan, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = NoteKind(k)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (j *SQLite) DeleteNote(ctx context.Context, owner, noteID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner = ?`, noteID, owner)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return affected(res, "note", noteID)
}
