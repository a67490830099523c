package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Tags:        []string{"Collections"},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections",
		Summary:     "Create collection",
		Tags:        []string{"Collections"},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Tags:        []string{"Collections"},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Tags:        []string{"Collections"},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes a collection; its bookmarks survive unattached",
		Tags:        []string{"Collections"},
	}, s.handleDeleteCollection)
}

// === DTOs ===

// CollectionResponse contains collection data in API responses.
type CollectionResponse struct {
	ID          string    `json:"id" doc:"Collection ID"`
	Name        string    `json:"name" doc:"Collection name"`
	Description string    `json:"description,omitempty" doc:"Description"`
	Order       int       `json:"order" doc:"Sidebar position"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func toCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Order:       c.Order,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CollectionOutput wraps a single collection response for Huma.
type CollectionOutput struct {
	Body CollectionResponse
}

// ListCollectionsOutput wraps the collection list response for Huma.
type ListCollectionsOutput struct {
	Body struct {
		Collections []CollectionResponse `json:"collections" doc:"List of collections"`
	}
}

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Collection name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Description"`
	Order       int    `json:"order,omitempty" doc:"Sidebar position"`
}

// CreateCollectionInput wraps the create request for Huma.
type CreateCollectionInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	Body    CreateCollectionRequest
}

// CollectionIDInput contains parameters addressing one collection.
type CollectionIDInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Collection ID"`
}

// UpdateCollectionRequest is the request body for updating a collection.
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Collection name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Description"`
	Order       *int    `json:"order,omitempty" doc:"Sidebar position"`
}

// UpdateCollectionInput wraps the update request for Huma.
type UpdateCollectionInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Collection ID"`
	Body    UpdateCollectionRequest
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, input *OwnerInput) (*ListCollectionsOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	colls, err := s.services.Collection.ListCollections(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &ListCollectionsOutput{}
	out.Body.Collections = make([]CollectionResponse, len(colls))
	for i, c := range colls {
		out.Body.Collections[i] = toCollectionResponse(c)
	}
	return out, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.CreateCollection(ctx, ownerID, input.Body.Name, input.Body.Description, input.Body.Order)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: toCollectionResponse(coll)}, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *CollectionIDInput) (*CollectionOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.GetCollection(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: toCollectionResponse(coll)}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.UpdateCollection(ctx, ownerID, input.ID, service.UpdateCollectionInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Order:       input.Body.Order,
	})
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: toCollectionResponse(coll)}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *CollectionIDInput) (*struct{}, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.services.Collection.DeleteCollection(ctx, ownerID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
