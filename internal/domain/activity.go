package domain

import "time"

// ActivityType classifies a bookmark activity entry.
type ActivityType string

const (
	ActivityCreated     ActivityType = "created"
	ActivityUpdated     ActivityType = "updated"
	ActivityVisited     ActivityType = "visited"
	ActivityFavorited   ActivityType = "favorited"
	ActivityUnfavorited ActivityType = "unfavorited"
	ActivityArchived    ActivityType = "archived"
	ActivityUnarchived  ActivityType = "unarchived"
	// ActivityMerged is written on the surviving bookmark once per
	// absorbed duplicate; Metadata records the duplicate's id/url/title.
	ActivityMerged ActivityType = "merged"
)

// Activity is an append-only log entry for a bookmark mutation.
// Activities are immutable once created; they are removed only by
// cascade when the parent bookmark is deleted.
type Activity struct {
	ID         string         `json:"id"`
	BookmarkID string         `json:"bookmark_id"`
	UserID     string         `json:"user_id"`
	Type       ActivityType   `json:"type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
