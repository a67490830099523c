package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func seedTag(t *testing.T, s *Store, id, ownerID, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("seed tag %s: %v", id, err)
	}
	return tag
}

func TestBookmarkCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	tag := seedTag(t, s, "tag-1", "user-1", "golang")

	b := &domain.Bookmark{
		ID:          "bm-1",
		OwnerID:     "user-1",
		URL:         "https://example.com/article",
		Title:       "An Article",
		Description: "About something",
		Domain:      "example.com",
		IsFavorite:  true,
		TagIDs:      []string{tag.ID},
	}
	b.InitTimestamps()

	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	got, err := s.GetBookmark(ctx, "bm-1")
	if err != nil {
		t.Fatalf("get bookmark: %v", err)
	}
	if got.URL != b.URL || got.Title != b.Title || !got.IsFavorite {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != "tag-1" {
		t.Errorf("expected tag-1, got %v", got.TagIDs)
	}

	got.Title = "Renamed"
	got.TagIDs = nil
	got.Touch()
	if err := s.UpdateBookmark(ctx, got); err != nil {
		t.Fatalf("update bookmark: %v", err)
	}

	got2, err := s.GetBookmark(ctx, "bm-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got2.Title != "Renamed" {
		t.Errorf("expected Renamed, got %s", got2.Title)
	}
	if len(got2.TagIDs) != 0 {
		t.Errorf("expected tags cleared, got %v", got2.TagIDs)
	}

	if err := s.DeleteBookmark(ctx, "bm-1"); err != nil {
		t.Fatalf("delete bookmark: %v", err)
	}
	if _, err := s.GetBookmark(ctx, "bm-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	if _, err := s.GetBookmark(ctx, "bm-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteBookmark(ctx, "bm-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}

	b := &domain.Bookmark{ID: "bm-missing", OwnerID: "user-1", URL: "https://example.com"}
	b.InitTimestamps()
	if err := s.UpdateBookmark(ctx, b); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkDuplicateID(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1")
	seedBookmark(t, s, "bm-1", "user-1", "https://example.com/a", "A")

	b := &domain.Bookmark{ID: "bm-1", OwnerID: "user-1", URL: "https://example.com/b"}
	b.InitTimestamps()
	if err := s.CreateBookmark(context.Background(), b); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListBookmarksFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	seedUser(t, s, "user-2")
	tag := seedTag(t, s, "tag-1", "user-1", "reading")

	mk := func(id, url, dom string, fav bool, tagIDs []string) {
		b := &domain.Bookmark{
			ID: id, OwnerID: "user-1", URL: url, Domain: dom,
			IsFavorite: fav, TagIDs: tagIDs,
		}
		b.InitTimestamps()
		if err := s.CreateBookmark(ctx, b); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		// Space out created_at so ordering is deterministic.
		time.Sleep(2 * time.Millisecond)
	}
	mk("bm-1", "https://a.example.com/1", "a.example.com", false, nil)
	mk("bm-2", "https://b.example.com/2", "b.example.com", true, []string{tag.ID})
	mk("bm-3", "https://a.example.com/3", "a.example.com", true, nil)
	seedBookmark(t, s, "bm-other", "user-2", "https://c.example.com", "Other owner")

	all, err := s.ListBookmarks(ctx, "user-1", store.BookmarkFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(all))
	}
	if all[0].ID != "bm-3" {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	fav := true
	favs, err := s.ListBookmarks(ctx, "user-1", store.BookmarkFilter{IsFavorite: &fav})
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(favs) != 2 {
		t.Errorf("expected 2 favorites, got %d", len(favs))
	}

	byDomain, err := s.ListBookmarks(ctx, "user-1", store.BookmarkFilter{Domain: "a.example.com"})
	if err != nil {
		t.Fatalf("list by domain: %v", err)
	}
	if len(byDomain) != 2 {
		t.Errorf("expected 2 by domain, got %d", len(byDomain))
	}

	byTag, err := s.ListBookmarks(ctx, "user-1", store.BookmarkFilter{TagID: "tag-1"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != "bm-2" {
		t.Errorf("expected bm-2, got %v", byTag)
	}

	limited, err := s.ListBookmarks(ctx, "user-1", store.BookmarkFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 limited, got %d", len(limited))
	}
}

func TestDeleteTagDetachesBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	tag := seedTag(t, s, "tag-1", "user-1", "golang")

	b := &domain.Bookmark{
		ID: "bm-1", OwnerID: "user-1",
		URL: "https://example.com", TagIDs: []string{tag.ID},
	}
	b.InitTimestamps()
	if err := s.CreateBookmark(ctx, b); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	got, err := s.GetBookmark(ctx, "bm-1")
	if err != nil {
		t.Fatalf("get bookmark: %v", err)
	}
	if len(got.TagIDs) != 0 {
		t.Errorf("expected tag association removed, got %v", got.TagIDs)
	}
}
