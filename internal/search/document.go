package search

import (
	"github.com/bookmeup/bookmeup-server/internal/domain"
)

// Document is the flattened, indexable view of a bookmark. Tag names and
// the active note are denormalized in so a single index write captures
// everything searchable.
type Document struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Notes       string
	Content     string
	URL         string
	Domain      string
	Tags        []string
	Collection  string
	IsFavorite  bool
	IsArchived  bool
	IsRead      bool
	CreatedAt   int64 // Unix seconds, for range filters and recency sort
}

// NewDocument flattens a bookmark into a Document. tagNames are the
// resolved names of b.TagIDs; noteText is the plain text of the active
// note, empty when there is none.
func NewDocument(b *domain.Bookmark, tagNames []string, noteText string) *Document {
	notes := b.Notes
	if noteText != "" {
		notes = noteText + "\n" + notes
	}
	return &Document{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Description: b.Description,
		Notes:       notes,
		Content:     b.Content,
		URL:         b.URL,
		Domain:      b.Domain,
		Tags:        tagNames,
		Collection:  b.CollectionID,
		IsFavorite:  b.IsFavorite,
		IsArchived:  b.IsArchived,
		IsRead:      b.IsRead,
		CreatedAt:   b.CreatedAt.Unix(),
	}
}

// ToMap converts the document to a map so field names match the index
// mapping (lowercase).
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"owner_id":    d.OwnerID,
		"title":       d.Title,
		"description": d.Description,
		"notes":       d.Notes,
		"content":     d.Content,
		"url":         d.URL,
		"domain":      d.Domain,
		"tags":        d.Tags,
		"collection":  d.Collection,
		"is_favorite": d.IsFavorite,
		"is_archived": d.IsArchived,
		"is_read":     d.IsRead,
		"created_at":  d.CreatedAt,
	}
}
