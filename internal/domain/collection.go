package domain

import "time"

// Collection groups bookmarks for organization. A bookmark belongs to at
// most one collection; membership is optional. Name is unique per owner.
type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	// Order is the user-defined sidebar position.
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Collection) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (c *Collection) InitTimestamps() {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
}
