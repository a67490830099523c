package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/enrich"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
	"github.com/bookmeup/bookmeup-server/internal/urlnorm"
)

// BookmarkService orchestrates bookmark CRUD, the activity log and the
// search index updates that follow every mutation.
type BookmarkService struct {
	store    store.Store
	search   *SearchService
	enricher *enrich.Enricher
	logger   *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(st store.Store, search *SearchService, enricher *enrich.Enricher, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:    st,
		search:   search,
		enricher: enricher,
		logger:   logger,
	}
}

// CreateBookmarkInput carries the caller-settable bookmark fields.
type CreateBookmarkInput struct {
	URL          string
	Title        string
	Description  string
	Notes        string
	CollectionID string
	TagIDs       []string
	IsFavorite   bool
	// Enrich fetches the page for metadata and content when true.
	Enrich bool
}

// Create saves a new bookmark. The URL is kept as given; the derived
// domain is stored for filtering. Duplicates of existing bookmarks are
// allowed and surface later through duplicate detection.
func (s *BookmarkService) Create(ctx context.Context, ownerID string, in CreateBookmarkInput) (*domain.Bookmark, error) {
	if in.URL == "" {
		return nil, apperrors.Validation("url is required")
	}

	bookmarkID, err := id.Generate("bm")
	if err != nil {
		return nil, apperrors.Internal("generate bookmark id", err)
	}

	b := &domain.Bookmark{
		ID:           bookmarkID,
		OwnerID:      ownerID,
		URL:          in.URL,
		Title:        in.Title,
		Description:  in.Description,
		Notes:        in.Notes,
		Domain:       urlnorm.Domain(in.URL),
		CollectionID: in.CollectionID,
		TagIDs:       in.TagIDs,
		IsFavorite:   in.IsFavorite,
	}
	b.InitTimestamps()

	if in.Enrich && s.enricher != nil && !s.enricher.Blocked(in.URL) {
		s.applyEnrichment(ctx, b)
	}

	if err := s.store.CreateBookmark(ctx, b); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	s.recordActivity(ctx, b.ID, ownerID, domain.ActivityCreated, nil)
	s.reindex(ctx, b)

	s.logger.Info("bookmark created",
		"bookmark_id", b.ID,
		"owner_id", ownerID,
		"domain", b.Domain,
	)
	return b, nil
}

// Get returns a bookmark owned by ownerID.
func (s *BookmarkService) Get(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	return s.getOwned(ctx, ownerID, bookmarkID)
}

// List returns the owner's bookmarks matching the filter.
func (s *BookmarkService) List(ctx context.Context, ownerID string, f store.BookmarkFilter) ([]*domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx, ownerID, f)
}

// UpdateBookmarkInput carries updatable fields. Nil pointers leave the
// field unchanged.
type UpdateBookmarkInput struct {
	URL          *string
	Title        *string
	Description  *string
	Notes        *string
	CollectionID *string
	TagIDs       []string
	IsFavorite   *bool
	IsArchived   *bool
	IsRead       *bool
}

// Update applies a partial update. Changing the URL resets the link
// health record; the old probe result says nothing about the new target.
func (s *BookmarkService) Update(ctx context.Context, ownerID, bookmarkID string, in UpdateBookmarkInput) (*domain.Bookmark, error) {
	b, err := s.getOwned(ctx, ownerID, bookmarkID)
	if err != nil {
		return nil, err
	}

	urlChanged := false
	if in.URL != nil && *in.URL != b.URL {
		if *in.URL == "" {
			return nil, apperrors.Validation("url cannot be empty")
		}
		b.URL = *in.URL
		b.Domain = urlnorm.Domain(*in.URL)
		urlChanged = true
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if in.CollectionID != nil {
		b.CollectionID = *in.CollectionID
	}
	if in.TagIDs != nil {
		b.TagIDs = in.TagIDs
	}

	var statusActivities []domain.ActivityType
	if in.IsFavorite != nil && *in.IsFavorite != b.IsFavorite {
		b.IsFavorite = *in.IsFavorite
		if b.IsFavorite {
			statusActivities = append(statusActivities, domain.ActivityFavorited)
		} else {
			statusActivities = append(statusActivities, domain.ActivityUnfavorited)
		}
	}
	if in.IsArchived != nil && *in.IsArchived != b.IsArchived {
		b.IsArchived = *in.IsArchived
		if b.IsArchived {
			statusActivities = append(statusActivities, domain.ActivityArchived)
		} else {
			statusActivities = append(statusActivities, domain.ActivityUnarchived)
		}
	}
	if in.IsRead != nil {
		b.IsRead = *in.IsRead
	}

	b.Touch()
	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	if urlChanged {
		if err := s.store.DeleteLinkHealth(ctx, b.ID); err != nil {
			s.logger.Warn("reset link health after url change", "bookmark_id", b.ID, "error", err)
		}
	}

	s.recordActivity(ctx, b.ID, ownerID, domain.ActivityUpdated, nil)
	for _, at := range statusActivities {
		s.recordActivity(ctx, b.ID, ownerID, at, nil)
	}
	s.reindex(ctx, b)

	return b, nil
}

// Delete removes a bookmark and everything hanging off it.
func (s *BookmarkService) Delete(ctx context.Context, ownerID, bookmarkID string) error {
	if _, err := s.getOwned(ctx, ownerID, bookmarkID); err != nil {
		return err
	}
	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		return mapStoreErr(err, "bookmark")
	}

	if s.search != nil {
		if err := s.search.RemoveBookmark(bookmarkID); err != nil {
			s.logger.Warn("remove bookmark from index", "bookmark_id", bookmarkID, "error", err)
		}
	}

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID, "owner_id", ownerID)
	return nil
}

// Visit records a visit: sets visited_at, marks the bookmark read, and
// appends a visited activity.
func (s *BookmarkService) Visit(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.getOwned(ctx, ownerID, bookmarkID)
	if err != nil {
		return nil, err
	}

	b.MarkVisited()
	b.IsRead = true
	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	s.recordActivity(ctx, b.ID, ownerID, domain.ActivityVisited, nil)
	return b, nil
}

// Refresh re-runs enrichment for an existing bookmark and persists any
// newly discovered metadata.
func (s *BookmarkService) Refresh(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.getOwned(ctx, ownerID, bookmarkID)
	if err != nil {
		return nil, err
	}
	if s.enricher == nil {
		return b, nil
	}
	if s.enricher.Blocked(b.URL) {
		return nil, apperrors.Validation("domain is blocked for enrichment")
	}

	s.applyEnrichment(ctx, b)
	b.Touch()
	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	s.reindex(ctx, b)
	return b, nil
}

// applyEnrichment fills empty metadata fields from the fetched page.
// Fetch failures are logged and swallowed; a bookmark without metadata
// beats a failed save.
func (s *BookmarkService) applyEnrichment(ctx context.Context, b *domain.Bookmark) {
	result, err := s.enricher.Fetch(ctx, b.URL)
	if err != nil {
		s.logger.Warn("enrich bookmark", "url", b.URL, "error", err)
		return
	}

	if b.Title == "" && result.Title != "" {
		b.Title = result.Title
	}
	if b.Description == "" && result.Description != "" {
		b.Description = result.Description
	}
	if b.FaviconURL == "" && result.FaviconURL != "" {
		b.FaviconURL = result.FaviconURL
	}
	if result.Content != "" {
		b.Content = result.Content
	}
}

// getOwned fetches a bookmark and enforces ownership.
func (s *BookmarkService) getOwned(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	return b, nil
}

// recordActivity appends to the activity log, best effort.
func (s *BookmarkService) recordActivity(ctx context.Context, bookmarkID, userID string, at domain.ActivityType, metadata map[string]any) {
	actID, err := id.Generate("act")
	if err != nil {
		s.logger.Warn("generate activity id", "error", err)
		return
	}
	act := &domain.Activity{
		ID:         actID,
		BookmarkID: bookmarkID,
		UserID:     userID,
		Type:       at,
		Metadata:   metadata,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.store.CreateActivity(ctx, act); err != nil {
		s.logger.Warn("record activity", "bookmark_id", bookmarkID, "type", at, "error", err)
	}
}

// reindex pushes a bookmark into the search index, best effort.
func (s *BookmarkService) reindex(ctx context.Context, b *domain.Bookmark) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexBookmark(ctx, b); err != nil {
		s.logger.Warn("index bookmark", "bookmark_id", b.ID, "error", err)
	}
}

// mapStoreErr converts store sentinels into API-facing errors.
func mapStoreErr(err error, resource string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFoundf("%s not found", resource)
	case errors.Is(err, store.ErrAlreadyExists):
		return apperrors.AlreadyExists(resource + " already exists")
	default:
		return apperrors.Internal("storage failure", err)
	}
}
