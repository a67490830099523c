// Package store defines the persistence interface of the BookMeUp server
// and the errors its implementations return.
package store

import (
	"context"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

// BookmarkFilter narrows ListBookmarks. Zero values mean "no constraint";
// the *bool fields distinguish unset from false.
type BookmarkFilter struct {
	CollectionID string
	TagID        string
	Domain       string
	IsFavorite   *bool
	IsArchived   *bool
	IsRead       *bool

	// Limit of 0 means unbounded.
	Limit  int
	Offset int
}

// HealthSummary aggregates link health over one owner's bookmarks.
type HealthSummary struct {
	Total     int                         `json:"total"`
	Unchecked int                         `json:"unchecked"`
	ByStatus  map[domain.HealthStatus]int `json:"by_status"`
}

// UserStore persists owner records.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// BookmarkStore persists bookmarks and their tag associations.
type BookmarkStore interface {
	CreateBookmark(ctx context.Context, b *domain.Bookmark) error
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	// UpdateBookmark writes all bookmark fields and replaces the tag set
	// with b.TagIDs in one transaction.
	UpdateBookmark(ctx context.Context, b *domain.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error
	ListBookmarks(ctx context.Context, ownerID string, f BookmarkFilter) ([]*domain.Bookmark, error)
}

// TagStore persists tags.
type TagStore interface {
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error)
}

// CollectionStore persists collections.
type CollectionStore interface {
	CreateCollection(ctx context.Context, coll *domain.Collection) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, coll *domain.Collection) error
	DeleteCollection(ctx context.Context, id string) error
	ListCollections(ctx context.Context, ownerID string) ([]*domain.Collection, error)
}

// NoteStore persists versioned bookmark notes.
type NoteStore interface {
	// CreateNote inserts the note and, when it is active, deactivates the
	// previous active note for the same bookmark and user in the same
	// transaction.
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	GetActiveNote(ctx context.Context, bookmarkID, userID string) (*domain.Note, error)
	ListNotes(ctx context.Context, bookmarkID string) ([]*domain.Note, error)
	// SetActiveNote makes the given note the single active note for its
	// bookmark and user.
	SetActiveNote(ctx context.Context, noteID string) error
}

// ActivityStore persists the append-only bookmark activity log.
type ActivityStore interface {
	CreateActivity(ctx context.Context, act *domain.Activity) error
	ListActivities(ctx context.Context, bookmarkID string, limit int) ([]*domain.Activity, error)
	ListRecentActivities(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error)
}

// LinkHealthStore persists per-bookmark health records and drives probe
// scheduling.
type LinkHealthStore interface {
	GetLinkHealth(ctx context.Context, bookmarkID string) (*domain.LinkHealth, error)
	UpsertLinkHealth(ctx context.Context, lh *domain.LinkHealth) error
	DeleteLinkHealth(ctx context.Context, bookmarkID string) error
	// SelectDueBookmarks returns up to limit bookmarks eligible for a
	// probe at the given instant: bookmarks with no health record first
	// (oldest created first), then records past next_check with broken
	// links ahead of healthy ones and the longest-unchecked first. A
	// non-empty ownerID restricts selection to that owner's bookmarks.
	SelectDueBookmarks(ctx context.Context, ownerID string, now time.Time, limit int) ([]*domain.Bookmark, error)
	HealthSummary(ctx context.Context, ownerID string) (*HealthSummary, error)
}

// MergeStore applies duplicate-merge writes.
type MergeStore interface {
	// ApplyMerge writes the reconciled primary bookmark and its tag set
	// in a single transaction.
	ApplyMerge(ctx context.Context, primary *domain.Bookmark) error
	// AbsorbDuplicate moves the duplicate's notes onto the primary (made
	// inactive), records a merged activity on the primary, and deletes
	// the duplicate, all in one transaction. Associated tags, activities
	// and health records of the duplicate are removed by cascade.
	AbsorbDuplicate(ctx context.Context, primaryID string, dup *domain.Bookmark, act *domain.Activity) error
}

// Store is the full persistence interface.
type Store interface {
	UserStore
	BookmarkStore
	TagStore
	CollectionStore
	NoteStore
	ActivityStore
	LinkHealthStore
	MergeStore

	Close() error
}
