package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func seedCollection(t *testing.T, s *Store, id, ownerID, name string) *domain.Collection {
	t.Helper()
	coll := &domain.Collection{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateCollection(context.Background(), coll); err != nil {
		t.Fatalf("seed collection %s: %v", id, err)
	}
	return coll
}

func TestCollectionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	coll := seedCollection(t, s, "col-1", "user-1", "Research")

	got, err := s.GetCollection(ctx, "col-1")
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if got.Name != "Research" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	coll.Name = "Research 2026"
	coll.Description = "Current reading"
	coll.Touch()
	if err := s.UpdateCollection(ctx, coll); err != nil {
		t.Fatalf("update collection: %v", err)
	}
	got, err = s.GetCollection(ctx, "col-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Name != "Research 2026" || got.Description != "Current reading" {
		t.Errorf("update not written: %+v", got)
	}

	if err := s.DeleteCollection(ctx, "col-1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	if _, err := s.GetCollection(ctx, "col-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCollectionOrphansBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	seedCollection(t, s, "col-1", "user-1", "Research")

	b := &domain.Bookmark{
		ID: "bm-1", OwnerID: "user-1",
		URL: "https://example.com", CollectionID: "col-1",
	}
	b.InitTimestamps()
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := s.DeleteCollection(ctx, "col-1"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}

	// The bookmark stays behind without a collection.
	got, err := s.GetBookmark(ctx, "bm-1")
	if err != nil {
		t.Fatalf("get bookmark: %v", err)
	}
	if got.CollectionID != "" {
		t.Errorf("expected collection cleared, got %q", got.CollectionID)
	}
}

func TestCollectionNameUniquePerOwner(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1")
	seedCollection(t, s, "col-1", "user-1", "Inbox")

	dup := &domain.Collection{
		ID: "col-2", OwnerID: "user-1", Name: "Inbox",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateCollection(context.Background(), dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
