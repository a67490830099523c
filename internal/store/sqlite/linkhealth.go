package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// linkHealthColumns is the ordered list of columns selected in link_health
// queries. Must match the scan order in scanLinkHealth.
const linkHealthColumns = `bookmark_id, status, last_checked, next_check,
	final_url, status_code, response_time, error_message, archive_url, check_count`

func scanLinkHealth(scanner interface{ Scan(dest ...any) error }) (*domain.LinkHealth, error) {
	var lh domain.LinkHealth

	var (
		status      string
		lastChecked sql.NullString
		nextCheck   string
	)

	err := scanner.Scan(
		&lh.BookmarkID,
		&status,
		&lastChecked,
		&nextCheck,
		&lh.FinalURL,
		&lh.StatusCode,
		&lh.ResponseTime,
		&lh.ErrorMessage,
		&lh.ArchiveURL,
		&lh.CheckCount,
	)
	if err != nil {
		return nil, err
	}

	lh.Status = domain.HealthStatus(status)
	lh.LastChecked, err = parseNullableTime(lastChecked)
	if err != nil {
		return nil, err
	}
	lh.NextCheck, err = parseTime(nextCheck)
	if err != nil {
		return nil, err
	}
	return &lh, nil
}

// GetLinkHealth retrieves the health record for a bookmark.
// Returns store.ErrNotFound when the bookmark has never been probed.
func (s *Store) GetLinkHealth(ctx context.Context, bookmarkID string) (*domain.LinkHealth, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+linkHealthColumns+` FROM link_health WHERE bookmark_id = ?`, bookmarkID)

	lh, err := scanLinkHealth(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return lh, nil
}

// UpsertLinkHealth inserts or replaces the health record for a bookmark.
func (s *Store) UpsertLinkHealth(ctx context.Context, lh *domain.LinkHealth) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_health (
			bookmark_id, status, last_checked, next_check,
			final_url, status_code, response_time, error_message, archive_url, check_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bookmark_id) DO UPDATE SET
			status = excluded.status,
			last_checked = excluded.last_checked,
			next_check = excluded.next_check,
			final_url = excluded.final_url,
			status_code = excluded.status_code,
			response_time = excluded.response_time,
			error_message = excluded.error_message,
			archive_url = excluded.archive_url,
			check_count = excluded.check_count`,
		lh.BookmarkID,
		string(lh.Status),
		nullTimeString(lh.LastChecked),
		formatTime(lh.NextCheck),
		lh.FinalURL,
		lh.StatusCode,
		lh.ResponseTime,
		lh.ErrorMessage,
		lh.ArchiveURL,
		lh.CheckCount,
	)
	return err
}

// DeleteLinkHealth removes the health record for a bookmark, resetting it
// to the never-probed state. Missing records are not an error.
func (s *Store) DeleteLinkHealth(ctx context.Context, bookmarkID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM link_health WHERE bookmark_id = ?`, bookmarkID)
	return err
}

// SelectDueBookmarks returns up to limit bookmarks eligible for a probe.
// Never-probed bookmarks come first, oldest created first; then bookmarks
// whose next_check has elapsed, broken links ahead of healthy ones and the
// longest-unchecked first. An empty ownerID selects across all owners.
func (s *Store) SelectDueBookmarks(ctx context.Context, ownerID string, now time.Time, limit int) ([]*domain.Bookmark, error) {
	if limit <= 0 {
		return nil, nil
	}

	neverQuery := `
		SELECT ` + bookmarkColumns + ` FROM bookmarks
		WHERE id NOT IN (SELECT bookmark_id FROM link_health)`
	neverArgs := []any{}
	if ownerID != "" {
		neverQuery += ` AND owner_id = ?`
		neverArgs = append(neverArgs, ownerID)
	}
	neverQuery += ` ORDER BY created_at, id LIMIT ?`
	neverArgs = append(neverArgs, limit)

	rows, err := s.db.QueryContext(ctx, neverQuery, neverArgs...)
	if err != nil {
		return nil, err
	}
	bookmarks, err := collectBookmarks(rows)
	if err != nil {
		return nil, err
	}

	if remaining := limit - len(bookmarks); remaining > 0 {
		dueQuery := `
			SELECT ` + prefixedBookmarkColumns("b") + `
			FROM bookmarks b
			JOIN link_health lh ON lh.bookmark_id = b.id
			WHERE lh.next_check <= ?`
		dueArgs := []any{formatTime(now)}
		if ownerID != "" {
			dueQuery += ` AND b.owner_id = ?`
			dueArgs = append(dueArgs, ownerID)
		}
		dueQuery += `
			ORDER BY
				CASE lh.status WHEN 'broken' THEN 0 WHEN 'archived' THEN 0 ELSE 1 END,
				lh.last_checked, b.id
			LIMIT ?`
		dueArgs = append(dueArgs, remaining)

		rows, err := s.db.QueryContext(ctx, dueQuery, dueArgs...)
		if err != nil {
			return nil, err
		}
		due, err := collectBookmarks(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, due...)
	}

	return bookmarks, nil
}

// HealthSummary aggregates link health over one owner's bookmarks.
func (s *Store) HealthSummary(ctx context.Context, ownerID string) (*store.HealthSummary, error) {
	summary := &store.HealthSummary{
		ByStatus: make(map[domain.HealthStatus]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE owner_id = ?`, ownerID).
		Scan(&summary.Total)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT lh.status, COUNT(*)
		FROM link_health lh
		JOIN bookmarks b ON b.id = lh.bookmark_id
		WHERE b.owner_id = ?
		GROUP BY lh.status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checked := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.ByStatus[domain.HealthStatus(status)] = count
		checked += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.Unchecked = summary.Total - checked
	return summary, nil
}

// collectBookmarks drains rows into bookmarks without loading tags; the
// probe scheduler has no use for tag sets.
func collectBookmarks(rows *sql.Rows) ([]*domain.Bookmark, error) {
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
	return bookmarks, nil
}

// prefixedBookmarkColumns qualifies bookmarkColumns with a table alias for
// joined queries.
func prefixedBookmarkColumns(alias string) string {
	cols := []string{
		"id", "owner_id", "url", "title", "description", "notes", "content",
		"favicon_url", "screenshot_url", "domain", "is_favorite", "is_archived",
		"is_read", "collection_id", "created_at", "updated_at", "visited_at",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s.%s", alias, c)
	}
	return out
}
