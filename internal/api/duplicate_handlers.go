package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

func (s *Server) registerDuplicateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "detectDuplicates",
		Method:      http.MethodGet,
		Path:        "/api/v1/duplicates",
		Summary:     "Detect duplicate bookmarks",
		Description: "Groups the owner's bookmarks by canonical URL and near-identical titles",
		Tags:        []string{"Duplicates"},
	}, s.handleDetectDuplicates)

	huma.Register(s.api, huma.Operation{
		OperationID: "mergeDuplicates",
		Method:      http.MethodPost,
		Path:        "/api/v1/duplicates/merge",
		Summary:     "Merge duplicates",
		Description: "Folds the listed duplicates into the primary bookmark",
		Tags:        []string{"Duplicates"},
	}, s.handleMergeDuplicates)
}

// === DTOs ===

// DuplicateGroupResponse is one group of suspected duplicates.
type DuplicateGroupResponse struct {
	Kind          string             `json:"kind" doc:"Grouping criterion: url or title"`
	NormalizedURL string             `json:"normalized_url,omitempty" doc:"Shared canonical URL for url groups"`
	Bookmarks     []BookmarkResponse `json:"bookmarks" doc:"Group members"`
}

// DuplicatesOutput wraps the duplicate groups response for Huma.
type DuplicatesOutput struct {
	Body struct {
		Groups []DuplicateGroupResponse `json:"groups" doc:"Duplicate groups, URL groups first"`
	}
}

// MergeRequest is the request body for merging duplicates.
type MergeRequest struct {
	PrimaryID    string   `json:"primary_id" validate:"required" doc:"Surviving bookmark ID"`
	DuplicateIDs []string `json:"duplicate_ids" validate:"required,min=1" doc:"Bookmark IDs to absorb"`
}

// MergeInput wraps the merge request for Huma.
type MergeInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Body    MergeRequest
}

// MergeFailureResponse records one duplicate that could not be absorbed.
type MergeFailureResponse struct {
	ID    string `json:"id" doc:"Bookmark ID"`
	Error string `json:"error" doc:"Failure reason"`
}

// MergeOutput wraps the merge result for Huma.
type MergeOutput struct {
	Body struct {
		Primary BookmarkResponse       `json:"primary" doc:"Reconciled surviving bookmark"`
		Merged  []string               `json:"merged" doc:"Absorbed bookmark IDs"`
		Failed  []MergeFailureResponse `json:"failed,omitempty" doc:"Duplicates that failed to merge"`
	}
}

// === Handlers ===

func (s *Server) handleDetectDuplicates(ctx context.Context, input *OwnerInput) (*DuplicatesOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	groups, err := s.services.Dedup.DetectDuplicates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &DuplicatesOutput{}
	out.Body.Groups = make([]DuplicateGroupResponse, len(groups))
	for i, g := range groups {
		out.Body.Groups[i] = toDuplicateGroupResponse(g)
	}
	return out, nil
}

func (s *Server) handleMergeDuplicates(ctx context.Context, input *MergeInput) (*MergeOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.services.Merge.Merge(ctx, ownerID, input.Body.PrimaryID, input.Body.DuplicateIDs)
	if err != nil {
		return nil, err
	}

	out := &MergeOutput{}
	out.Body.Primary = toBookmarkResponse(result.Primary)
	out.Body.Merged = result.Merged
	out.Body.Failed = toMergeFailures(result.Failed)
	return out, nil
}

func toDuplicateGroupResponse(g *domain.DuplicateGroup) DuplicateGroupResponse {
	resp := DuplicateGroupResponse{
		Kind:          string(g.Kind),
		NormalizedURL: g.NormalizedURL,
		Bookmarks:     make([]BookmarkResponse, len(g.Bookmarks)),
	}
	for i, b := range g.Bookmarks {
		resp.Bookmarks[i] = toBookmarkResponse(b)
	}
	return resp
}

func toMergeFailures(failures []service.MergeFailure) []MergeFailureResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]MergeFailureResponse, len(failures))
	for i, f := range failures {
		out[i] = MergeFailureResponse{ID: f.ID, Error: f.Error}
	}
	return out
}
