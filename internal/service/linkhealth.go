package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
	"github.com/bookmeup/bookmeup-server/internal/store"
	"github.com/bookmeup/bookmeup-server/internal/urlnorm"
)

// LinkHealthService probes bookmark URLs, persists the results and
// schedules re-checks.
type LinkHealthService struct {
	store   store.Store
	prober  *linkhealth.Prober
	archive *linkhealth.ArchiveClient
	backoff linkhealth.Backoff
	search  *SearchService
	workers int
	logger  *slog.Logger
}

// LinkHealthOptions configures the service.
type LinkHealthOptions struct {
	Prober  *linkhealth.Prober
	Archive *linkhealth.ArchiveClient
	Backoff linkhealth.Backoff
	// Workers bounds concurrent probes during a batch run (default 5).
	Workers int
}

// NewLinkHealthService creates a new link health service.
func NewLinkHealthService(st store.Store, search *SearchService, opts LinkHealthOptions, logger *slog.Logger) *LinkHealthService {
	workers := opts.Workers
	if workers < 1 {
		workers = 5
	}
	return &LinkHealthService{
		store:   st,
		prober:  opts.Prober,
		archive: opts.Archive,
		backoff: opts.Backoff,
		search:  search,
		workers: workers,
		logger:  logger,
	}
}

// CheckBookmark probes one bookmark now and persists the outcome. Broken
// links get a web-archive availability lookup; a hit upgrades the status
// to archived.
func (s *LinkHealthService) CheckBookmark(ctx context.Context, ownerID, bookmarkID string) (*domain.LinkHealth, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	return s.check(ctx, b)
}

func (s *LinkHealthService) check(ctx context.Context, b *domain.Bookmark) (*domain.LinkHealth, error) {
	prev, err := s.store.GetLinkHealth(ctx, b.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, mapStoreErr(err, "link health")
	}

	result := s.prober.Check(ctx, b.URL)

	now := time.Now().UTC()
	lh := &domain.LinkHealth{
		BookmarkID:   b.ID,
		Status:       result.Status,
		LastChecked:  &now,
		FinalURL:     result.FinalURL,
		StatusCode:   result.StatusCode,
		ResponseTime: int(result.ResponseTime.Milliseconds()),
		ErrorMessage: result.ErrorMessage,
		CheckCount:   1,
	}
	if prev != nil {
		lh.CheckCount = prev.CheckCount + 1
		lh.ArchiveURL = prev.ArchiveURL
	}

	if lh.Status == domain.HealthBroken && s.archive != nil {
		snapshot, found, lookupErr := s.archive.Lookup(ctx, b.URL)
		switch {
		case lookupErr != nil:
			s.logger.Warn("archive lookup failed", "bookmark_id", b.ID, "error", lookupErr)
		case found:
			lh.Status = domain.HealthArchived
			lh.ArchiveURL = snapshot
		}
	}

	// A recovered link sheds its snapshot; the archive URL only makes
	// sense while the live URL does not resolve.
	if lh.Status != domain.HealthBroken && lh.Status != domain.HealthArchived {
		lh.ArchiveURL = ""
	}

	lh.NextCheck = now.Add(s.backoff.Next(lh.Status, lh.CheckCount))

	if err := s.store.UpsertLinkHealth(ctx, lh); err != nil {
		return nil, mapStoreErr(err, "link health")
	}
	return lh, nil
}

// BatchResult summarizes one scheduled probe run.
type BatchResult struct {
	RunID    string                      `json:"run_id"`
	Checked  int                         `json:"checked"`
	Failed   int                         `json:"failed"`
	ByStatus map[domain.HealthStatus]int `json:"by_status"`
}

// ProcessDue probes up to limit due bookmarks with a bounded worker
// pool. Individual probe failures are counted, not fatal; the context
// cancels the whole run.
func (s *LinkHealthService) ProcessDue(ctx context.Context, limit int) (*BatchResult, error) {
	due, err := s.store.SelectDueBookmarks(ctx, "", time.Now().UTC(), limit)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}

	result := &BatchResult{
		RunID:    uuid.NewString(),
		ByStatus: make(map[domain.HealthStatus]int),
	}
	if len(due) == 0 {
		return result, nil
	}

	s.logger.Info("link check run started",
		"run_id", result.RunID,
		"due", len(due),
		"workers", s.workers,
	)

	statuses := make([]domain.HealthStatus, len(due))
	failed := make([]bool, len(due))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, b := range due {
		g.Go(func() error {
			lh, err := s.check(gctx, b)
			if err != nil {
				s.logger.Warn("link check failed",
					"run_id", result.RunID,
					"bookmark_id", b.ID,
					"error", err,
				)
				failed[i] = true
				return nil
			}
			statuses[i] = lh.Status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range due {
		if failed[i] {
			result.Failed++
			continue
		}
		result.Checked++
		result.ByStatus[statuses[i]]++
	}

	s.logger.Info("link check run finished",
		"run_id", result.RunID,
		"checked", result.Checked,
		"failed", result.Failed,
	)
	return result, nil
}

// Get returns a bookmark's health record.
func (s *LinkHealthService) Get(ctx context.Context, ownerID, bookmarkID string) (*domain.LinkHealth, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}
	lh, err := s.store.GetLinkHealth(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "link health")
	}
	return lh, nil
}

// ListDue returns the owner's bookmarks currently eligible for a probe,
// in batch order: never-probed first, then elapsed rechecks.
func (s *LinkHealthService) ListDue(ctx context.Context, ownerID string, limit int) ([]*domain.Bookmark, error) {
	if limit <= 0 {
		limit = 50
	}
	due, err := s.store.SelectDueBookmarks(ctx, ownerID, time.Now().UTC(), limit)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	return due, nil
}

// Summary aggregates the owner's link health by status.
func (s *LinkHealthService) Summary(ctx context.Context, ownerID string) (*store.HealthSummary, error) {
	return s.store.HealthSummary(ctx, ownerID)
}

// ApplyRedirect accepts a redirected link's final URL as the bookmark's
// new stored URL and resets its health record, so the next probe starts
// fresh against the new target.
func (s *LinkHealthService) ApplyRedirect(ctx context.Context, ownerID, bookmarkID string) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if b.OwnerID != ownerID {
		return nil, apperrors.Forbidden("bookmark belongs to another user")
	}

	lh, err := s.store.GetLinkHealth(ctx, bookmarkID)
	if err != nil {
		return nil, mapStoreErr(err, "link health")
	}
	if lh.Status != domain.HealthRedirected || lh.FinalURL == "" {
		return nil, apperrors.Conflict("bookmark has no pending redirect")
	}

	b.URL = lh.FinalURL
	b.Domain = urlnorm.Domain(lh.FinalURL)
	b.Touch()
	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		return nil, mapStoreErr(err, "bookmark")
	}
	if err := s.store.DeleteLinkHealth(ctx, bookmarkID); err != nil {
		s.logger.Warn("reset link health after redirect", "bookmark_id", bookmarkID, "error", err)
	}

	if s.search != nil {
		if err := s.search.IndexBookmark(ctx, b); err != nil {
			s.logger.Warn("index bookmark after redirect", "bookmark_id", b.ID, "error", err)
		}
	}
	return b, nil
}
