// Package service orchestrates the BookMeUp domain operations on top of
// the store, the search index and the outbound HTTP clients.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/search"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// SearchService keeps the full-text index in sync with the store and
// executes queries in the search mini-language.
type SearchService struct {
	index  *search.Index
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, st store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  st,
		logger: logger,
	}
}

// Search parses and executes a query scoped to one owner.
func (s *SearchService) Search(ctx context.Context, ownerID, raw string, limit, offset int) (*search.Result, error) {
	query := search.Parse(raw)
	return s.index.Search(ctx, search.Params{
		OwnerID:   ownerID,
		Query:     query,
		Limit:     limit,
		Offset:    offset,
		Highlight: true,
	})
}

// IndexBookmark (re)indexes one bookmark, denormalizing its tag names and
// active note text into the document.
func (s *SearchService) IndexBookmark(ctx context.Context, b *domain.Bookmark) error {
	doc, err := s.buildDocument(ctx, b)
	if err != nil {
		return err
	}
	return s.index.IndexDocument(doc)
}

// RemoveBookmark drops a bookmark from the index.
func (s *SearchService) RemoveBookmark(id string) error {
	return s.index.DeleteDocument(id)
}

// Reindex rebuilds the index from scratch for every user in the store.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, user := range users {
		bookmarks, err := s.store.ListBookmarks(ctx, user.ID, store.BookmarkFilter{})
		if err != nil {
			return total, err
		}

		docs := make([]*search.Document, 0, len(bookmarks))
		for _, b := range bookmarks {
			doc, err := s.buildDocument(ctx, b)
			if err != nil {
				return total, err
			}
			docs = append(docs, doc)
		}
		if err := s.index.IndexDocuments(docs); err != nil {
			return total, err
		}
		total += len(docs)
	}

	s.logger.Info("search reindex complete", "documents", total)
	return total, nil
}

func (s *SearchService) buildDocument(ctx context.Context, b *domain.Bookmark) (*search.Document, error) {
	tagNames := make([]string, 0, len(b.TagIDs))
	for _, tagID := range b.TagIDs {
		tag, err := s.store.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		tagNames = append(tagNames, tag.Name)
	}

	noteText := ""
	note, err := s.store.GetActiveNote(ctx, b.ID, b.OwnerID)
	if err == nil {
		noteText = note.PlainText
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return search.NewDocument(b, tagNames, noteText), nil
}
