package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags for the current owner",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag; bookmarks carrying it are detached",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name"`
	Color     string    `json:"color,omitempty" doc:"Display color"`
	Order     int       `json:"order" doc:"Sidebar position"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		Order:     t.Order,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// OwnerInput carries just the owner header.
type OwnerInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
}

// ListTagsOutput wraps the tag list response for Huma.
type ListTagsOutput struct {
	Body struct {
		Tags []TagResponse `json:"tags" doc:"List of tags"`
	}
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
	Order int    `json:"order,omitempty" doc:"Sidebar position"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Body    CreateTagRequest
}

// TagIDInput contains parameters addressing one tag.
type TagIDInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Tag ID"`
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50" doc:"Tag name"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
	Order *int    `json:"order,omitempty" doc:"Sidebar position"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Tag ID"`
	Body    UpdateTagRequest
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *OwnerInput) (*ListTagsOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ListTags(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &ListTagsOutput{}
	out.Body.Tags = make([]TagResponse, len(tags))
	for i, t := range tags {
		out.Body.Tags[i] = toTagResponse(t)
	}
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.CreateTag(ctx, ownerID, input.Body.Name, input.Body.Color, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.GetTag(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.UpdateTag(ctx, ownerID, input.ID, service.UpdateTagInput{
		Name:  input.Body.Name,
		Color: input.Body.Color,
		Order: input.Body.Order,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*struct{}, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.services.Tag.DeleteTag(ctx, ownerID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
