package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func (s *Server) registerLinkHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmarkHealth",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}/health",
		Summary:     "Get link health",
		Tags:        []string{"Link Health"},
	}, s.handleGetBookmarkHealth)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/check",
		Summary:     "Probe a link now",
		Description: "Probes the bookmark's URL immediately and stores the result",
		Tags:        []string{"Link Health"},
	}, s.handleCheckBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyRedirect",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/apply-redirect",
		Summary:     "Accept a redirect",
		Description: "Replaces the stored URL with the redirect target and resets health",
		Tags:        []string{"Link Health"},
	}, s.handleApplyRedirect)

	huma.Register(s.api, huma.Operation{
		OperationID: "linkHealthSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/link-health/summary",
		Summary:     "Link health summary",
		Description: "Aggregates the owner's bookmarks by health status",
		Tags:        []string{"Link Health"},
	}, s.handleHealthSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDueBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/link-health/due",
		Summary:     "List bookmarks due for checking",
		Description: "Returns the owner's bookmarks eligible for a probe, never-probed first",
		Tags:        []string{"Link Health"},
	}, s.handleListDueBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "runLinkChecks",
		Method:      http.MethodPost,
		Path:        "/api/v1/link-health/run",
		Summary:     "Run due link checks",
		Description: "Probes due bookmarks with a bounded worker pool",
		Tags:        []string{"Link Health"},
	}, s.handleRunLinkChecks)
}

// === DTOs ===

// LinkHealthResponse contains a bookmark's health record.
type LinkHealthResponse struct {
	BookmarkID   string     `json:"bookmark_id" doc:"Bookmark ID"`
	Status       string     `json:"status" doc:"Health status"`
	LastChecked  *time.Time `json:"last_checked,omitempty" doc:"Last probe time"`
	NextCheck    time.Time  `json:"next_check" doc:"Next scheduled probe"`
	FinalURL     string     `json:"final_url,omitempty" doc:"URL after redirects"`
	StatusCode   int        `json:"status_code,omitempty" doc:"Last HTTP status"`
	ResponseTime int        `json:"response_time,omitempty" doc:"Probe duration in milliseconds"`
	ErrorMessage string     `json:"error_message,omitempty" doc:"Transport error, if any"`
	ArchiveURL   string     `json:"archive_url,omitempty" doc:"Web-archive snapshot URL"`
	CheckCount   int        `json:"check_count" doc:"Probes so far"`
}

func toLinkHealthResponse(lh *domain.LinkHealth) LinkHealthResponse {
	return LinkHealthResponse{
		BookmarkID:   lh.BookmarkID,
		Status:       string(lh.Status),
		LastChecked:  lh.LastChecked,
		NextCheck:    lh.NextCheck,
		FinalURL:     lh.FinalURL,
		StatusCode:   lh.StatusCode,
		ResponseTime: lh.ResponseTime,
		ErrorMessage: lh.ErrorMessage,
		ArchiveURL:   lh.ArchiveURL,
		CheckCount:   lh.CheckCount,
	}
}

// LinkHealthOutput wraps a single health record for Huma.
type LinkHealthOutput struct {
	Body LinkHealthResponse
}

// HealthSummaryOutput wraps the per-owner health summary for Huma.
type HealthSummaryOutput struct {
	Body struct {
		Total     int            `json:"total" doc:"Total bookmarks"`
		Unchecked int            `json:"unchecked" doc:"Bookmarks never probed"`
		ByStatus  map[string]int `json:"by_status" doc:"Counts per health status"`
	}
}

// ListDueInput contains parameters for the due-bookmark listing.
type ListDueInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Limit   int    `query:"limit" doc:"Maximum bookmarks to return (default 50)"`
}

// RunLinkChecksInput contains parameters for a manual batch run.
type RunLinkChecksInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Limit   int    `query:"limit" doc:"Maximum bookmarks to probe (default 50)"`
}

// RunLinkChecksOutput wraps the batch result for Huma.
type RunLinkChecksOutput struct {
	Body struct {
		RunID    string         `json:"run_id" doc:"Probe run ID"`
		Checked  int            `json:"checked" doc:"Bookmarks probed"`
		Failed   int            `json:"failed" doc:"Probes that errored"`
		ByStatus map[string]int `json:"by_status" doc:"Outcomes per status"`
	}
}

// === Handlers ===

func (s *Server) handleGetBookmarkHealth(ctx context.Context, input *GetBookmarkInput) (*LinkHealthOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	lh, err := s.services.LinkHealth.Get(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &LinkHealthOutput{Body: toLinkHealthResponse(lh)}, nil
}

func (s *Server) handleCheckBookmark(ctx context.Context, input *GetBookmarkInput) (*LinkHealthOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	lh, err := s.services.LinkHealth.CheckBookmark(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &LinkHealthOutput{Body: toLinkHealthResponse(lh)}, nil
}

func (s *Server) handleApplyRedirect(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.LinkHealth.ApplyRedirect(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleHealthSummary(ctx context.Context, input *OwnerInput) (*HealthSummaryOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	summary, err := s.services.LinkHealth.Summary(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &HealthSummaryOutput{}
	out.Body.Total = summary.Total
	out.Body.Unchecked = summary.Unchecked
	out.Body.ByStatus = make(map[string]int, len(summary.ByStatus))
	for status, count := range summary.ByStatus {
		out.Body.ByStatus[string(status)] = count
	}
	return out, nil
}

func (s *Server) handleListDueBookmarks(ctx context.Context, input *ListDueInput) (*ListBookmarksOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	due, err := s.services.LinkHealth.ListDue(ctx, ownerID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &ListBookmarksOutput{}
	out.Body.Bookmarks = make([]BookmarkResponse, len(due))
	for i, b := range due {
		out.Body.Bookmarks[i] = toBookmarkResponse(b)
	}
	return out, nil
}

func (s *Server) handleRunLinkChecks(ctx context.Context, input *RunLinkChecksInput) (*RunLinkChecksOutput, error) {
	if _, err := s.requireOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	result, err := s.services.LinkHealth.ProcessDue(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := &RunLinkChecksOutput{}
	out.Body.RunID = result.RunID
	out.Body.Checked = result.Checked
	out.Body.Failed = result.Failed
	out.Body.ByStatus = make(map[string]int, len(result.ByStatus))
	for status, count := range result.ByStatus {
		out.Body.ByStatus[string(status)] = count
	}
	return out, nil
}
