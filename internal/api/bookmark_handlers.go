package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/service"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns the owner's bookmarks, newest first, with optional filters",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks",
		Summary:     "Create bookmark",
		Description: "Saves a new bookmark, optionally enriching it with page metadata",
		Tags:        []string{"Bookmarks"},
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmark",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Get bookmark",
		Tags:        []string{"Bookmarks"},
	}, s.handleGetBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookmark",
		Method:      http.MethodPatch,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Update bookmark",
		Description: "Applies a partial update; omitted fields are unchanged",
		Tags:        []string{"Bookmarks"},
	}, s.handleUpdateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "visitBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/visit",
		Summary:     "Record a visit",
		Description: "Marks the bookmark visited and read",
		Tags:        []string{"Bookmarks"},
	}, s.handleVisitBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks/{id}/refresh",
		Summary:     "Refresh metadata",
		Description: "Re-fetches the page and fills in missing metadata",
		Tags:        []string{"Bookmarks"},
	}, s.handleRefreshBookmark)
}

// === DTOs ===

// BookmarkResponse contains bookmark data in API responses.
type BookmarkResponse struct {
	ID            string     `json:"id" doc:"Bookmark ID"`
	URL           string     `json:"url" doc:"Stored URL"`
	Title         string     `json:"title" doc:"Title"`
	Description   string     `json:"description,omitempty" doc:"Description"`
	Notes         string     `json:"notes,omitempty" doc:"Legacy free-text notes"`
	FaviconURL    string     `json:"favicon_url,omitempty" doc:"Favicon URL"`
	ScreenshotURL string     `json:"screenshot_url,omitempty" doc:"Screenshot URL"`
	Domain        string     `json:"domain,omitempty" doc:"URL host"`
	IsFavorite    bool       `json:"is_favorite" doc:"Favorite flag"`
	IsArchived    bool       `json:"is_archived" doc:"Archived flag"`
	IsRead        bool       `json:"is_read" doc:"Read flag"`
	CollectionID  string     `json:"collection_id,omitempty" doc:"Collection ID"`
	TagIDs        []string   `json:"tag_ids,omitempty" doc:"Attached tag IDs"`
	CreatedAt     time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time  `json:"updated_at" doc:"Last update time"`
	VisitedAt     *time.Time `json:"visited_at,omitempty" doc:"Last visit time"`
}

func toBookmarkResponse(b *domain.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:            b.ID,
		URL:           b.URL,
		Title:         b.Title,
		Description:   b.Description,
		Notes:         b.Notes,
		FaviconURL:    b.FaviconURL,
		ScreenshotURL: b.ScreenshotURL,
		Domain:        b.Domain,
		IsFavorite:    b.IsFavorite,
		IsArchived:    b.IsArchived,
		IsRead:        b.IsRead,
		CollectionID:  b.CollectionID,
		TagIDs:        b.TagIDs,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		VisitedAt:     b.VisitedAt,
	}
}

// BookmarkOutput wraps a single bookmark response for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// ListBookmarksInput contains parameters for listing bookmarks.
type ListBookmarksInput struct {
	OwnerID      string `header:"X-Owner-ID" doc:"Owner user ID"`
	CollectionID string `query:"collection_id" doc:"Filter by collection"`
	TagID        string `query:"tag_id" doc:"Filter by tag"`
	Domain       string `query:"domain" doc:"Filter by URL host"`
	Favorite     string `query:"favorite" doc:"Filter by favorite flag (true/false)"`
	Archived     string `query:"archived" doc:"Filter by archived flag (true/false)"`
	Read         string `query:"read" doc:"Filter by read flag (true/false)"`
	Limit        int    `query:"limit" doc:"Page size (0 = unbounded)"`
	Offset       int    `query:"offset" doc:"Page offset"`
}

// ListBookmarksOutput wraps the bookmark list response for Huma.
type ListBookmarksOutput struct {
	Body struct {
		Bookmarks []BookmarkResponse `json:"bookmarks" doc:"List of bookmarks"`
	}
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	URL          string   `json:"url" validate:"required,url" doc:"URL to save"`
	Title        string   `json:"title,omitempty" validate:"omitempty,max=500" doc:"Title"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description"`
	Notes        string   `json:"notes,omitempty" doc:"Free-text notes"`
	CollectionID string   `json:"collection_id,omitempty" doc:"Collection ID"`
	TagIDs       []string `json:"tag_ids,omitempty" doc:"Tag IDs to attach"`
	IsFavorite   bool     `json:"is_favorite,omitempty" doc:"Favorite flag"`
	Enrich       bool     `json:"enrich,omitempty" doc:"Fetch page metadata on save"`
}

// CreateBookmarkInput wraps the create request for Huma.
type CreateBookmarkInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Body    CreateBookmarkRequest
}

// GetBookmarkInput contains parameters for getting a bookmark.
type GetBookmarkInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Bookmark ID"`
}

// UpdateBookmarkRequest is the request body for updating a bookmark.
type UpdateBookmarkRequest struct {
	URL          *string  `json:"url,omitempty" validate:"omitempty,url" doc:"New URL"`
	Title        *string  `json:"title,omitempty" validate:"omitempty,max=500" doc:"New title"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000" doc:"New description"`
	Notes        *string  `json:"notes,omitempty" doc:"New free-text notes"`
	CollectionID *string  `json:"collection_id,omitempty" doc:"New collection (empty detaches)"`
	TagIDs       []string `json:"tag_ids,omitempty" doc:"Replacement tag set"`
	IsFavorite   *bool    `json:"is_favorite,omitempty" doc:"Favorite flag"`
	IsArchived   *bool    `json:"is_archived,omitempty" doc:"Archived flag"`
	IsRead       *bool    `json:"is_read,omitempty" doc:"Read flag"`
}

// UpdateBookmarkInput wraps the update request for Huma.
type UpdateBookmarkInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Bookmark ID"`
	Body    UpdateBookmarkRequest
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	filter := store.BookmarkFilter{
		CollectionID: input.CollectionID,
		TagID:        input.TagID,
		Domain:       input.Domain,
		IsFavorite:   parseBoolFlag(input.Favorite),
		IsArchived:   parseBoolFlag(input.Archived),
		IsRead:       parseBoolFlag(input.Read),
		Limit:        input.Limit,
		Offset:       input.Offset,
	}

	bookmarks, err := s.services.Bookmark.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	out := &ListBookmarksOutput{}
	out.Body.Bookmarks = make([]BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		out.Body.Bookmarks[i] = toBookmarkResponse(b)
	}
	return out, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	b, err := s.services.Bookmark.Create(ctx, ownerID, service.CreateBookmarkInput{
		URL:          input.Body.URL,
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Notes:        input.Body.Notes,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
		IsFavorite:   input.Body.IsFavorite,
		Enrich:       input.Body.Enrich,
	})
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleGetBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmark.Get(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleUpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	b, err := s.services.Bookmark.Update(ctx, ownerID, input.ID, service.UpdateBookmarkInput{
		URL:          input.Body.URL,
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Notes:        input.Body.Notes,
		CollectionID: input.Body.CollectionID,
		TagIDs:       input.Body.TagIDs,
		IsFavorite:   input.Body.IsFavorite,
		IsArchived:   input.Body.IsArchived,
		IsRead:       input.Body.IsRead,
	})
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *GetBookmarkInput) (*struct{}, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.services.Bookmark.Delete(ctx, ownerID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleVisitBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmark.Visit(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleRefreshBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmark.Refresh(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

// parseBoolFlag turns a "true"/"false" query value into a tri-state
// filter; anything else means unset.
func parseBoolFlag(v string) *bool {
	switch v {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	default:
		return nil
	}
}
