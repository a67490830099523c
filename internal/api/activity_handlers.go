package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarkActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}/activities",
		Summary:     "List bookmark activities",
		Description: "Returns the bookmark's activity log, newest first",
		Tags:        []string{"Activities"},
	}, s.handleListBookmarkActivities)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecentActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/activities",
		Summary:     "List recent activities",
		Description: "Returns the owner's latest activities across all bookmarks",
		Tags:        []string{"Activities"},
	}, s.handleListRecentActivities)
}

// === DTOs ===

// ActivityResponse contains activity data in API responses.
type ActivityResponse struct {
	ID         string         `json:"id" doc:"Activity ID"`
	BookmarkID string         `json:"bookmark_id" doc:"Bookmark ID"`
	Type       string         `json:"type" doc:"Activity type"`
	Metadata   map[string]any `json:"metadata,omitempty" doc:"Type-specific details"`
	Timestamp  time.Time      `json:"timestamp" doc:"When it happened"`
}

func toActivityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		BookmarkID: a.BookmarkID,
		Type:       string(a.Type),
		Metadata:   a.Metadata,
		Timestamp:  a.Timestamp,
	}
}

// ActivitiesOutput wraps an activity list response for Huma.
type ActivitiesOutput struct {
	Body struct {
		Activities []ActivityResponse `json:"activities" doc:"Activity entries, newest first"`
	}
}

// BookmarkActivitiesInput contains parameters for a bookmark's activity log.
type BookmarkActivitiesInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Bookmark ID"`
	Limit   int    `query:"limit" doc:"Maximum entries (default 50)"`
}

// RecentActivitiesInput contains parameters for the owner-wide feed.
type RecentActivitiesInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Limit   int    `query:"limit" doc:"Maximum entries (default 50)"`
}

// === Handlers ===

func (s *Server) handleListBookmarkActivities(ctx context.Context, input *BookmarkActivitiesInput) (*ActivitiesOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	acts, err := s.services.Activity.ListForBookmark(ctx, ownerID, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}
	return activitiesOutput(acts), nil
}

func (s *Server) handleListRecentActivities(ctx context.Context, input *RecentActivitiesInput) (*ActivitiesOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	acts, err := s.services.Activity.ListRecent(ctx, ownerID, input.Limit)
	if err != nil {
		return nil, err
	}
	return activitiesOutput(acts), nil
}

func activitiesOutput(acts []*domain.Activity) *ActivitiesOutput {
	out := &ActivitiesOutput{}
	out.Body.Activities = make([]ActivityResponse, len(acts))
	for i, a := range acts {
		out.Body.Activities[i] = toActivityResponse(a)
	}
	return out
}
