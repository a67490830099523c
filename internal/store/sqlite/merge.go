package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// ApplyMerge writes the reconciled primary bookmark and its tag set in a
// single transaction. Returns store.ErrNotFound if the primary is gone.
func (s *Store) ApplyMerge(ctx context.Context, primary *domain.Bookmark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateBookmarkRow(ctx, tx, primary); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, primary.ID, primary.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// AbsorbDuplicate folds one duplicate into the primary in a single
// transaction: the duplicate's notes move to the primary as inactive
// revisions, a merged activity is recorded on the primary, and the
// duplicate row is deleted. The duplicate's tags, activities and health
// record go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if the duplicate no longer exists.
func (s *Store) AbsorbDuplicate(ctx context.Context, primaryID string, dup *domain.Bookmark, act *domain.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Move notes before the delete; they would otherwise vanish with the
	// duplicate via ON DELETE CASCADE.
	_, err = tx.ExecContext(ctx, `
		UPDATE notes SET bookmark_id = ?, is_active = 0
		WHERE bookmark_id = ?`,
		primaryID, dup.ID)
	if err != nil {
		return fmt.Errorf("move notes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, dup.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	var metadata sql.NullString
	if len(act.Metadata) > 0 {
		data, err := json.Marshal(act.Metadata)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO activities (id, bookmark_id, user_id, type, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		act.ID,
		act.BookmarkID,
		act.UserID,
		string(act.Type),
		metadata,
		formatTime(act.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("record merged activity: %w", err)
	}

	return tx.Commit()
}
