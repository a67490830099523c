package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `id, bookmark_id, user_id, content, plain_text, is_active, parent_id, created_at, updated_at`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		isActive  int
		parentID  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&n.ID,
		&n.BookmarkID,
		&n.UserID,
		&n.Content,
		&n.PlainText,
		&isActive,
		&parentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	n.IsActive = isActive != 0
	n.ParentID = parentID.String

	return &n, nil
}

// CreateNote inserts a note. When the note is active, the previous active
// note for the same bookmark and user is deactivated in the same
// transaction, so at most one note per (bookmark, user) stays active.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if note.IsActive {
		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET is_active = 0
			WHERE bookmark_id = ? AND user_id = ? AND is_active = 1`,
			note.BookmarkID, note.UserID)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (
			id, bookmark_id, user_id, content, plain_text, is_active, parent_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.BookmarkID,
		note.UserID,
		note.Content,
		note.PlainText,
		boolToInt(note.IsActive),
		nullString(note.ParentID),
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit()
}

// GetNote retrieves a note by ID.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetActiveNote retrieves the active note for a bookmark and user.
// Returns store.ErrNotFound when no active note exists.
func (s *Store) GetActiveNote(ctx context.Context, bookmarkID, userID string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		WHERE bookmark_id = ? AND user_id = ? AND is_active = 1`,
		bookmarkID, userID)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListNotes returns all note revisions for a bookmark, newest first.
func (s *Store) ListNotes(ctx context.Context, bookmarkID string) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		WHERE bookmark_id = ? ORDER BY created_at DESC, id`,
		bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// SetActiveNote makes the given note the single active note for its
// bookmark and user, deactivating any other active revision.
// Returns store.ErrNotFound if the note does not exist.
func (s *Store) SetActiveNote(ctx context.Context, noteID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT bookmark_id, user_id FROM notes WHERE id = ?`, noteID)
	var bookmarkID, userID string
	if err := row.Scan(&bookmarkID, &userID); err != nil {
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE notes SET is_active = 0
		WHERE bookmark_id = ? AND user_id = ? AND is_active = 1 AND id != ?`,
		bookmarkID, userID, noteID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE notes SET is_active = 1 WHERE id = ?`, noteID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
