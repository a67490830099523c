package domain

import "time"

// Note is a versioned note attached to a bookmark. Exactly one note per
// (bookmark, user) pair is active; superseded revisions stay behind with
// IsActive=false and ParentID pointing at the note they replaced.
type Note struct {
	ID         string `json:"id"`
	BookmarkID string `json:"bookmark_id"`
	UserID     string `json:"user_id"`
	// Content is sanitized HTML; PlainText is the searchable version.
	Content   string    `json:"content"`
	PlainText string    `json:"plain_text"`
	IsActive  bool      `json:"is_active"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UTC()
}
