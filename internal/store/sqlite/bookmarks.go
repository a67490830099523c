package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// bookmarkColumns is the ordered list of columns selected in bookmark
// queries. Must match the scan order in scanBookmark.
const bookmarkColumns = `id, owner_id, url, title, description, notes, content,
	favicon_url, screenshot_url, domain, is_favorite, is_archived, is_read,
	collection_id, created_at, updated_at, visited_at`

// scanBookmark scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Bookmark. TagIDs are loaded separately.
func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark

	var (
		isFavorite   int
		isArchived   int
		isRead       int
		collectionID sql.NullString
		createdAt    string
		updatedAt    string
		visitedAt    sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&b.OwnerID,
		&b.URL,
		&b.Title,
		&b.Description,
		&b.Notes,
		&b.Content,
		&b.FaviconURL,
		&b.ScreenshotURL,
		&b.Domain,
		&isFavorite,
		&isArchived,
		&isRead,
		&collectionID,
		&createdAt,
		&updatedAt,
		&visitedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.VisitedAt, err = parseNullableTime(visitedAt)
	if err != nil {
		return nil, err
	}

	b.IsFavorite = isFavorite != 0
	b.IsArchived = isArchived != 0
	b.IsRead = isRead != 0
	b.CollectionID = collectionID.String

	return &b, nil
}

// loadTagIDs loads the tag IDs attached to a bookmark, in attach order.
func (s *Store) loadTagIDs(ctx context.Context, bookmarkID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_id FROM bookmark_tags WHERE bookmark_id = ? ORDER BY created_at, tag_id`,
		bookmarkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tagIDs []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tagIDs, nil
}

// replaceTags deletes and re-inserts the bookmark_tags rows for a bookmark
// inside an existing transaction.
func replaceTags(ctx context.Context, tx *sql.Tx, bookmarkID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = ?`, bookmarkID); err != nil {
		return err
	}
	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			bookmarkID, tagID, now,
		)
		if err != nil {
			return fmt.Errorf("insert bookmark_tag %s: %w", tagID, err)
		}
	}
	return nil
}

// CreateBookmark inserts a bookmark and its tag associations in a
// transaction. Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookmarks (
			id, owner_id, url, title, description, notes, content,
			favicon_url, screenshot_url, domain, is_favorite, is_archived, is_read,
			collection_id, created_at, updated_at, visited_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.OwnerID,
		b.URL,
		b.Title,
		b.Description,
		b.Notes,
		b.Content,
		b.FaviconURL,
		b.ScreenshotURL,
		b.Domain,
		boolToInt(b.IsFavorite),
		boolToInt(b.IsArchived),
		boolToInt(b.IsRead),
		nullString(b.CollectionID),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		nullTimeString(b.VisitedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := replaceTags(ctx, tx, b.ID, b.TagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetBookmark retrieves a bookmark by ID and loads its TagIDs.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.TagIDs, err = s.loadTagIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load tag IDs: %w", err)
	}
	return b, nil
}

// UpdateBookmark updates a bookmark row and replaces its tag associations
// in a transaction. Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateBookmarkRow(ctx, tx, b); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, b.ID, b.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// updateBookmarkRow writes all bookmark columns inside an existing
// transaction. Returns store.ErrNotFound when no row matches.
func updateBookmarkRow(ctx context.Context, tx *sql.Tx, b *domain.Bookmark) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE bookmarks SET
			url = ?,
			title = ?,
			description = ?,
			notes = ?,
			content = ?,
			favicon_url = ?,
			screenshot_url = ?,
			domain = ?,
			is_favorite = ?,
			is_archived = ?,
			is_read = ?,
			collection_id = ?,
			created_at = ?,
			updated_at = ?,
			visited_at = ?
		WHERE id = ?`,
		b.URL,
		b.Title,
		b.Description,
		b.Notes,
		b.Content,
		b.FaviconURL,
		b.ScreenshotURL,
		b.Domain,
		boolToInt(b.IsFavorite),
		boolToInt(b.IsArchived),
		boolToInt(b.IsRead),
		nullString(b.CollectionID),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		nullTimeString(b.VisitedAt),
		b.ID,
	)
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
	return nil
}

// DeleteBookmark hard-deletes a bookmark. Tags, notes, activities and
// health records are removed via ON DELETE CASCADE.
// Returns store.ErrNotFound if the bookmark does not exist.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
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
	return nil
}

// ListBookmarks returns an owner's bookmarks matching the filter, newest
// first. TagIDs are loaded for each bookmark.
func (s *Store) ListBookmarks(ctx context.Context, ownerID string, f store.BookmarkFilter) ([]*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE owner_id = ?`
	args := []any{ownerID}

	if f.CollectionID != "" {
		query += ` AND collection_id = ?`
		args = append(args, f.CollectionID)
	}
	if f.Domain != "" {
		query += ` AND domain = ?`
		args = append(args, f.Domain)
	}
	if f.TagID != "" {
		query += ` AND id IN (SELECT bookmark_id FROM bookmark_tags WHERE tag_id = ?)`
		args = append(args, f.TagID)
	}
	if f.IsFavorite != nil {
		query += ` AND is_favorite = ?`
		args = append(args, boolToInt(*f.IsFavorite))
	}
	if f.IsArchived != nil {
		query += ` AND is_archived = ?`
		args = append(args, boolToInt(*f.IsArchived))
	}
	if f.IsRead != nil {
		query += ` AND is_read = ?`
		args = append(args, boolToInt(*f.IsRead))
	}

	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range bookmarks {
		b.TagIDs, err = s.loadTagIDs(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("load tag IDs for %s: %w", b.ID, err)
		}
	}

	return bookmarks, nil
}
