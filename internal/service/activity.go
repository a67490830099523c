package service

import (
	"context"
	"log/slog"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

const defaultActivityLimit = 50

// ActivityService reads the bookmark activity log.
type ActivityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(st store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{store: st, logger: logger}
}

// ListForBookmark returns a bookmark's activities, newest first.
func (s *ActivityService) ListForBookmark(ctx context.Context, ownerID, bookmarkID string, limit int) ([]*domain.Activity, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.store.ListActivities(ctx, bookmarkID, limit)
}

// ListRecent returns the owner's latest activities across all bookmarks.
func (s *ActivityService) ListRecent(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.store.ListRecentActivities(ctx, ownerID, limit)
}
