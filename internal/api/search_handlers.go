package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search bookmarks",
		Description: "Full-text search with filter prefixes like tag:, domain:, unread:true, after:2025-01-01",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild the search index",
		Description: "Drops and rebuilds the index from the store",
		Tags:        []string{"Search"},
	}, s.handleReindex)
}

// === DTOs ===

// SearchInput contains search query parameters.
type SearchInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Query   string `query:"q" doc:"Query in the search mini-language"`
	Limit   int    `query:"limit" doc:"Page size (default 20)"`
	Offset  int    `query:"offset" doc:"Page offset"`
}

// SearchHitResponse is one search result.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Bookmark ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title,omitempty" doc:"Title"`
	URL        string            `json:"url,omitempty" doc:"Stored URL"`
	Domain     string            `json:"domain,omitempty" doc:"URL host"`
	Tags       []string          `json:"tags,omitempty" doc:"Tag names"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted fragment per field"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body struct {
		Total  uint64              `json:"total" doc:"Total matching documents"`
		TookMs int64               `json:"took_ms" doc:"Query time in milliseconds"`
		Hits   []SearchHitResponse `json:"hits" doc:"Result page"`
	}
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body struct {
		Indexed int `json:"indexed" doc:"Documents indexed"`
	}
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, ownerID, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	out := &SearchOutput{}
	out.Body.Total = result.Total
	out.Body.TookMs = result.TookMs
	out.Body.Hits = make([]SearchHitResponse, len(result.Hits))
	for i, hit := range result.Hits {
		out.Body.Hits[i] = toSearchHitResponse(hit)
	}
	return out, nil
}

func (s *Server) handleReindex(ctx context.Context, input *OwnerInput) (*ReindexOutput, error) {
	if _, err := s.requireOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	total, err := s.services.Search.Reindex(ctx)
	if err != nil {
		return nil, err
	}

	out := &ReindexOutput{}
	out.Body.Indexed = total
	return out, nil
}

func toSearchHitResponse(hit search.Hit) SearchHitResponse {
	return SearchHitResponse{
		ID:         hit.ID,
		Score:      hit.Score,
		Title:      hit.Title,
		URL:        hit.URL,
		Domain:     hit.Domain,
		Tags:       hit.Tags,
		Highlights: hit.Highlights,
	}
}
