package domain

import "time"

// Tag categorizes bookmarks. Tags are per-user: Name is unique within an
// owner, never globally.
type Tag struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	// Color is a hex display color, e.g. "#6366f1".
	Color string `json:"color,omitempty"`
	// Order is the user-defined sidebar position.
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (t *Tag) InitTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// BookmarkTag represents the many-to-many relationship between bookmarks and tags.
type BookmarkTag struct {
	BookmarkID string    `json:"bookmark_id"`
	TagID      string    `json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}
