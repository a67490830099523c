package service

import (
	"context"
	"log/slog"

	"github.com/bookmeup/bookmeup-server/internal/dedup"
	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// DedupService detects duplicate bookmarks for one owner at a time.
// Detection is read-only; resolution goes through MergeService.
type DedupService struct {
	store    store.Store
	detector *dedup.Detector
	logger   *slog.Logger
}

// NewDedupService creates a new dedup service.
func NewDedupService(st store.Store, detector *dedup.Detector, logger *slog.Logger) *DedupService {
	return &DedupService{store: st, detector: detector, logger: logger}
}

// DetectDuplicates loads the owner's active collection and returns its
// duplicate groups, URL groups before title groups. Archived bookmarks
// are left out of detection entirely.
func (s *DedupService) DetectDuplicates(ctx context.Context, ownerID string) ([]*domain.DuplicateGroup, error) {
	archived := false
	bookmarks, err := s.store.ListBookmarks(ctx, ownerID, store.BookmarkFilter{IsArchived: &archived})
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	groups := s.detector.Detect(bookmarks)

	s.logger.Debug("duplicate detection complete",
		"owner_id", ownerID,
		"bookmarks", len(bookmarks),
		"groups", len(groups),
	)
	return groups, nil
}
