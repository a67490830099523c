package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// activityColumns is the ordered list of columns selected in activity
// queries. Must match the scan order in scanActivity.
const activityColumns = `id, bookmark_id, user_id, type, metadata, timestamp`

func scanActivity(scanner interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var a domain.Activity

	var (
		actType   string
		metadata  sql.NullString
		timestamp string
	)

	err := scanner.Scan(
		&a.ID,
		&a.BookmarkID,
		&a.UserID,
		&actType,
		&metadata,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.ActivityType(actType)
	a.Timestamp, err = parseTime(timestamp)
	if err != nil {
		return nil, err
	}

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode activity metadata: %w", err)
		}
	}

	return &a, nil
}

// CreateActivity appends an activity log entry.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateActivity(ctx context.Context, act *domain.Activity) error {
	var metadata sql.NullString
	if len(act.Metadata) > 0 {
		data, err := json.Marshal(act.Metadata)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
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
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListActivities returns a bookmark's activities, newest first.
// A limit of 0 means unbounded.
func (s *Store) ListActivities(ctx context.Context, bookmarkID string, limit int) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE bookmark_id = ? ORDER BY timestamp DESC, id`
	args := []any{bookmarkID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return s.queryActivities(ctx, query, args...)
}

// ListRecentActivities returns the most recent activities across all of an
// owner's bookmarks, newest first. A limit of 0 means unbounded.
func (s *Store) ListRecentActivities(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error) {
	query := `SELECT a.id, a.bookmark_id, a.user_id, a.type, a.metadata, a.timestamp
		FROM activities a
		JOIN bookmarks b ON b.id = a.bookmark_id
		WHERE b.owner_id = ?
		ORDER BY a.timestamp DESC, a.id`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return s.queryActivities(ctx, query, args...)
}

func (s *Store) queryActivities(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, act)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
