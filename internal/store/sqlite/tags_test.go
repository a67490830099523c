package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func TestTagCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	tag := &domain.Tag{
		ID:        "tag-1",
		OwnerID:   "user-1",
		Name:      "golang",
		Color:     "#00add8",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if got.Name != "golang" || got.Color != "#00add8" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	got.Name = "go"
	got.Touch()
	if err := s.UpdateTag(ctx, got); err != nil {
		t.Fatalf("update tag: %v", err)
	}
	got, err = s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Name != "go" {
		t.Errorf("expected go, got %s", got.Name)
	}

	if err := s.DeleteTag(ctx, "tag-1"); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	if _, err := s.GetTag(ctx, "tag-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTagNameUniquePerOwner(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1")
	seedUser(t, s, "user-2")
	seedTag(t, s, "tag-1", "user-1", "reading")

	// Same name for the same owner collides.
	dup := &domain.Tag{
		ID: "tag-2", OwnerID: "user-1", Name: "reading",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateTag(context.Background(), dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Same name for another owner is fine.
	other := &domain.Tag{
		ID: "tag-3", OwnerID: "user-2", Name: "reading",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateTag(context.Background(), other); err != nil {
		t.Errorf("cross-owner create: %v", err)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	for _, name := range []string{"zulu", "alpha", "mike"} {
		tag := &domain.Tag{
			ID: "tag-" + name, OwnerID: "user-1", Name: name,
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		}
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	tags, err := s.ListTags(ctx, "user-1")
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	// Equal sort_order falls back to name order.
	if tags[0].Name != "alpha" || tags[2].Name != "zulu" {
		t.Errorf("unexpected order: %s, %s, %s", tags[0].Name, tags[1].Name, tags[2].Name)
	}
}
