package search

import (
	"context"
	"fmt"
	"math"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Field boosts for free-text matching. Title matches dominate, page
// content barely nudges relevance.
const (
	boostTitle       = 4.0
	boostDescription = 3.0
	boostNotes       = 2.0
	boostContent     = 1.0
)

// Params configures a search.
type Params struct {
	OwnerID string
	Query   Query

	Limit  int
	Offset int

	Highlight bool
}

// Result represents the search results.
type Result struct {
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching bookmark.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Domain     string            `json:"domain,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a parsed query scoped to one owner.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params.OwnerID, params.Query)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"title", "url", "domain", "tags"}

	if hasText(params.Query) {
		searchRequest.SortBy([]string{"-_score"})
	} else {
		// Pure filter queries sort by recency; every hit scores the same.
		searchRequest.SortBy([]string{"-created_at"})
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("description")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if u, ok := hit.Fields["url"].(string); ok {
			h.URL = u
		}
		if d, ok := hit.Fields["domain"].(string); ok {
			h.Domain = d
		}
		h.Tags = stringSliceField(hit.Fields["tags"])

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query: the owner filter and every
// structured filter are required; each free-text term must match at least
// one of the weighted text fields.
func buildSearchQuery(ownerID string, q Query) query.Query {
	var queries []query.Query

	owner := bleve.NewTermQuery(ownerID)
	owner.SetField("owner_id")
	queries = append(queries, owner)

	for _, term := range q.Terms {
		queries = append(queries, textDisjunction(term, false))
	}
	for _, phrase := range q.Phrases {
		queries = append(queries, textDisjunction(phrase, true))
	}

	for _, tag := range q.Tags {
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		queries = append(queries, tq)
	}
	if q.Domain != "" {
		dq := bleve.NewTermQuery(q.Domain)
		dq.SetField("domain")
		queries = append(queries, dq)
	}
	if q.Collection != "" {
		cq := bleve.NewTermQuery(q.Collection)
		cq.SetField("collection")
		queries = append(queries, cq)
	}

	if q.Unread != nil {
		// unread:true means is_read == false.
		bq := bleve.NewBoolFieldQuery(!*q.Unread)
		bq.SetField("is_read")
		queries = append(queries, bq)
	}
	if q.Favorite != nil {
		bq := bleve.NewBoolFieldQuery(*q.Favorite)
		bq.SetField("is_favorite")
		queries = append(queries, bq)
	}
	if q.Archived != nil {
		bq := bleve.NewBoolFieldQuery(*q.Archived)
		bq.SetField("is_archived")
		queries = append(queries, bq)
	}

	if q.After != nil || q.Before != nil {
		min := -math.MaxFloat64
		max := math.MaxFloat64
		if q.After != nil {
			min = float64(q.After.Unix())
		}
		if q.Before != nil {
			max = float64(q.Before.Unix())
		}
		inclusiveMin := true
		exclusiveMax := false
		rq := bleve.NewNumericRangeInclusiveQuery(&min, &max, &inclusiveMin, &exclusiveMax)
		rq.SetField("created_at")
		queries = append(queries, rq)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// textDisjunction matches one term or phrase against the weighted text
// fields, requiring a hit in at least one of them.
func textDisjunction(text string, phrase bool) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{"title", boostTitle},
		{"description", boostDescription},
		{"notes", boostNotes},
		{"content", boostContent},
	}

	var perField []query.Query
	for _, f := range fields {
		if phrase {
			mq := bleve.NewMatchPhraseQuery(text)
			mq.SetField(f.name)
			mq.SetBoost(f.boost)
			perField = append(perField, mq)
		} else {
			mq := bleve.NewMatchQuery(text)
			mq.SetField(f.name)
			mq.SetBoost(f.boost)
			perField = append(perField, mq)
		}
	}
	return bleve.NewDisjunctionQuery(perField...)
}

func hasText(q Query) bool {
	return len(q.Terms) > 0 || len(q.Phrases) > 0
}

// stringSliceField normalizes a stored field that may come back as a bare
// string or a slice of values.
func stringSliceField(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
