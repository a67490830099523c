package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// MergeService resolves duplicate groups by folding duplicates into a
// surviving primary bookmark.
type MergeService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewMergeService creates a new merge service.
func NewMergeService(st store.Store, search *SearchService, logger *slog.Logger) *MergeService {
	return &MergeService{store: st, search: search, logger: logger}
}

// MergeFailure records one duplicate that could not be absorbed.
type MergeFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// MergeResult reports the outcome of a merge. A merge is not
// all-or-nothing across duplicates: each absorption is its own
// transaction, so some duplicates can succeed while others fail.
type MergeResult struct {
	Primary *domain.Bookmark `json:"primary"`
	Merged  []string         `json:"merged"`
	Failed  []MergeFailure   `json:"failed,omitempty"`
}

// ReconcileMerge folds duplicate field values into the primary, in
// place. Field policy:
//
//   - text and media fields keep the first non-empty value, primary first
//   - tags are the union, primary's first, duplicates in given order
//   - CreatedAt becomes the earliest, VisitedAt the latest
//   - favorite and read flags are OR-ed; archived follows the primary
//   - the collection stays the primary's unless it had none
func ReconcileMerge(primary *domain.Bookmark, dups []*domain.Bookmark) {
	seen := make(map[string]bool, len(primary.TagIDs))
	for _, t := range primary.TagIDs {
		seen[t] = true
	}

	for _, d := range dups {
		if primary.Title == "" {
			primary.Title = d.Title
		}
		if primary.Description == "" {
			primary.Description = d.Description
		}
		if primary.Notes == "" {
			primary.Notes = d.Notes
		}
		if primary.Content == "" {
			primary.Content = d.Content
		}
		if primary.FaviconURL == "" {
			primary.FaviconURL = d.FaviconURL
		}
		if primary.ScreenshotURL == "" {
			primary.ScreenshotURL = d.ScreenshotURL
		}
		if primary.CollectionID == "" {
			primary.CollectionID = d.CollectionID
		}

		primary.IsFavorite = primary.IsFavorite || d.IsFavorite
		primary.IsRead = primary.IsRead || d.IsRead

		if d.CreatedAt.Before(primary.CreatedAt) && !d.CreatedAt.IsZero() {
			primary.CreatedAt = d.CreatedAt
		}
		if d.VisitedAt != nil && (primary.VisitedAt == nil || d.VisitedAt.After(*primary.VisitedAt)) {
			primary.VisitedAt = d.VisitedAt
		}

		for _, t := range d.TagIDs {
			if !seen[t] {
				seen[t] = true
				primary.TagIDs = append(primary.TagIDs, t)
			}
		}
	}

	primary.Touch()
}

// Merge absorbs the given duplicates into the primary. The primary's
// fields are reconciled and written first; then each duplicate is
// absorbed in its own transaction (notes preserved, a merged activity
// recorded, the duplicate row deleted). Failures on individual
// duplicates are reported, not fatal.
func (s *MergeService) Merge(ctx context.Context, ownerID, primaryID string, dupIDs []string) (*MergeResult, error) {
	if len(dupIDs) == 0 {
		return nil, apperrors.Validation("at least one duplicate id is required")
	}

	// The primary id is tolerated in the duplicate list; only a list
	// that holds nothing else is an error.
	ids := make([]string, 0, len(dupIDs))
	for _, dupID := range dupIDs {
		if dupID != primaryID {
			ids = append(ids, dupID)
		}
	}
	if len(ids) == 0 {
		return nil, apperrors.Validation("cannot merge a bookmark with itself")
	}

	primary, err := s.ownedBookmark(ctx, ownerID, primaryID)
	if err != nil {
		return nil, err
	}

	dups := make([]*domain.Bookmark, 0, len(ids))
	for _, dupID := range ids {
		dup, err := s.ownedBookmark(ctx, ownerID, dupID)
		if err != nil {
			return nil, err
		}
		dups = append(dups, dup)
	}

	// Pick the note that should stay active afterwards: the most
	// recently updated active note across the primary and all
	// duplicates. Duplicate notes survive absorption as inactive
	// revisions on the primary.
	winner := s.newestActiveNote(ctx, ownerID, primary, dups)

	ReconcileMerge(primary, dups)
	if err := s.store.ApplyMerge(ctx, primary); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	result := &MergeResult{Primary: primary}
	for _, dup := range dups {
		if err := s.absorb(ctx, ownerID, primary.ID, dup); err != nil {
			s.logger.Warn("absorb duplicate failed",
				"primary_id", primary.ID,
				"duplicate_id", dup.ID,
				"error", err,
			)
			result.Failed = append(result.Failed, MergeFailure{ID: dup.ID, Error: err.Error()})
			continue
		}
		result.Merged = append(result.Merged, dup.ID)
	}

	if winner != nil {
		if err := s.store.SetActiveNote(ctx, winner.ID); err != nil {
			s.logger.Warn("restore winning note after merge", "note_id", winner.ID, "error", err)
		}
	}

	s.syncIndex(ctx, primary, result.Merged)

	s.logger.Info("merge complete",
		"primary_id", primary.ID,
		"merged", len(result.Merged),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *MergeService) absorb(ctx context.Context, ownerID, primaryID string, dup *domain.Bookmark) error {
	actID, err := id.Generate("act")
	if err != nil {
		return apperrors.Internal("generate activity id", err)
	}
	act := &domain.Activity{
		ID:         actID,
		BookmarkID: primaryID,
		UserID:     ownerID,
		Type:       domain.ActivityMerged,
		Metadata: map[string]any{
			"merged_from":  dup.ID,
			"merged_url":   dup.URL,
			"merged_title": dup.Title,
		},
		Timestamp: time.Now().UTC(),
	}

	if err := s.store.AbsorbDuplicate(ctx, primaryID, dup, act); err != nil {
		return mapStoreErr(err, "bookmark")
	}
	return nil
}

// newestActiveNote returns the freshest active note across the primary
// and duplicates, or nil when none exists. Lookup failures only cost the
// restore step, so they are logged and skipped.
func (s *MergeService) newestActiveNote(ctx context.Context, ownerID string, primary *domain.Bookmark, dups []*domain.Bookmark) *domain.Note {
	var winner *domain.Note
	for _, b := range append([]*domain.Bookmark{primary}, dups...) {
		note, err := s.store.GetActiveNote(ctx, b.ID, ownerID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.logger.Warn("load active note for merge", "bookmark_id", b.ID, "error", err)
			}
			continue
		}
		if winner == nil || note.UpdatedAt.After(winner.UpdatedAt) {
			winner = note
		}
	}
	return winner
}

func (s *MergeService) syncIndex(ctx context.Context, primary *domain.Bookmark, mergedIDs []string) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexBookmark(ctx, primary); err != nil {
		s.logger.Warn("index primary after merge", "bookmark_id", primary.ID, "error", err)
	}
	for _, dupID := range mergedIDs {
		if err := s.search.RemoveBookmark(dupID); err != nil {
			s.logger.Warn("deindex merged duplicate", "bookmark_id", dupID, "error", err)
		}
	}
}

func (s *MergeService) ownedBookmark(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	return b, nil
}
