// Package domain defines the core entities of the BookMeUp server.
package domain

import "time"

// Bookmark represents a saved URL owned by a single user.
//
// URL uniqueness per owner is a goal, not an enforced constraint:
// duplicates are expected to exist transiently and are resolved by an
// explicit merge (see the dedup and service packages).
type Bookmark struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Notes is the legacy free-text field. Structured, versioned notes
	// live in the Note entity; this survives for imports and merges.
	Notes string `json:"notes,omitempty"`
	// Content is extracted page text (markdown) used for full-text search.
	Content       string `json:"content,omitempty"`
	FaviconURL    string `json:"favicon_url,omitempty"`
	ScreenshotURL string `json:"screenshot_url,omitempty"`

	// Domain is the lowercased URL host, derived at write time.
	Domain string `json:"domain,omitempty"`

	IsFavorite bool `json:"is_favorite"`
	IsArchived bool `json:"is_archived"`
	IsRead     bool `json:"is_read"`

	// CollectionID is empty when the bookmark belongs to no collection.
	CollectionID string `json:"collection_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`

	// TagIDs is denormalized from the bookmark_tags join table on reads.
	TagIDs []string `json:"tag_ids,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (b *Bookmark) InitTimestamps() {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// MarkVisited records a visit at the current time.
func (b *Bookmark) MarkVisited() {
	now := time.Now().UTC()
	b.VisitedAt = &now
	b.UpdatedAt = now
}
