package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// NoteService manages versioned bookmark notes. Saving never overwrites:
// every save is a new revision, the previous active one stays behind and
// can be restored.
type NoteService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(st store.Store, search *SearchService, logger *slog.Logger) *NoteService {
	return &NoteService{store: st, search: search, logger: logger}
}

// SaveNote creates a new active revision for the bookmark. The previous
// active note, if any, becomes this revision's parent.
func (s *NoteService) SaveNote(ctx context.Context, ownerID, bookmarkID, content string) (*domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("note content is required")
	}

	b, err := s.ownedBookmark(ctx, ownerID, bookmarkID)
	if err != nil {
		return nil, err
	}

	parentID := ""
	prev, err := s.store.GetActiveNote(ctx, bookmarkID, ownerID)
	switch {
	case err == nil:
		parentID = prev.ID
	case !errors.Is(err, store.ErrNotFound):
		return nil, mapStoreErr(err, "note")
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, apperrors.Internal("generate note id", err)
	}

	now := time.Now().UTC()
	note := &domain.Note{
		ID:         noteID,
		BookmarkID: bookmarkID,
		UserID:     ownerID,
		Content:    content,
		PlainText:  extractText(content),
		IsActive:   true,
		ParentID:   parentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, mapStoreErr(err, "note")
	}

	s.reindexBookmark(ctx, b)
	return note, nil
}

// GetActiveNote returns the current note for a bookmark, or ErrNotFound
// when none has been written.
func (s *NoteService) GetActiveNote(ctx context.Context, ownerID, bookmarkID string) (*domain.Note, error) {
	if _, err := s.ownedBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}
	note, err := s.store.GetActiveNote(ctx, bookmarkID, ownerID)
	if err != nil {
		return nil, mapStoreErr(err, "note")
	}
	return note, nil
}

// ListRevisions returns every revision for a bookmark, newest first.
func (s *NoteService) ListRevisions(ctx context.Context, ownerID, bookmarkID string) ([]*domain.Note, error) {
	if _, err := s.ownedBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}
	return s.store.ListNotes(ctx, bookmarkID)
}

// Restore makes an older revision active again.
func (s *NoteService) Restore(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreErr(err, "note")
	}
	if note.UserID != ownerID {
		return nil, apperrors.Forbidden("note belongs to another user")
	}

	b, err := s.ownedBookmark(ctx, ownerID, note.BookmarkID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetActiveNote(ctx, noteID); err != nil {
		return nil, mapStoreErr(err, "note")
	}
	note.IsActive = true

	s.reindexBookmark(ctx, b)
	return note, nil
}

func (s *NoteService) ownedBookmark(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	return b, nil
}

func (s *NoteService) reindexBookmark(ctx context.Context, b *domain.Bookmark) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexBookmark(ctx, b); err != nil {
		s.logger.Warn("index bookmark after note change", "bookmark_id", b.ID, "error", err)
	}
}

// extractText flattens note HTML into plain text for indexing. Invalid
// markup degrades to whatever text nodes the parser recovers.
func extractText(content string) string {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(parts, " ")
}
