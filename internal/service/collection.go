package service

import (
	"context"
	"log/slog"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// CollectionService manages collections.
type CollectionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{store: st, logger: logger}
}

// CreateCollection creates a collection. Names are unique per owner.
func (s *CollectionService) CreateCollection(ctx context.Context, ownerID, name, description string, order int) (*domain.Collection, error) {
	if name == "" {
		return nil, apperrors.Validation("collection name is required")
	}

	collID, err := id.Generate("col")
	if err != nil {
		return nil, apperrors.Internal("generate collection id", err)
	}

	coll := &domain.Collection{
		ID:          collID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Order:       order,
	}
	coll.InitTimestamps()

	if err := s.store.CreateCollection(ctx, coll); err != nil {
		return nil, mapStoreErr(err, "collection")
	}
	return coll, nil
}

// GetCollection returns a collection owned by ownerID.
func (s *CollectionService) GetCollection(ctx context.Context, ownerID, collID string) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, mapStoreErr(err, "collection")
	}
	if coll.OwnerID != ownerID {
		return nil, apperrors.Forbidden("collection belongs to another user")
	}
	return coll, nil
}

// UpdateCollectionInput carries updatable fields; nil leaves a field alone.
type UpdateCollectionInput struct {
	Name        *string
	Description *string
	Order       *int
}

// UpdateCollection applies a partial update.
func (s *CollectionService) UpdateCollection(ctx context.Context, ownerID, collID string, in UpdateCollectionInput) (*domain.Collection, error) {
	coll, err := s.GetCollection(ctx, ownerID, collID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.Validation("collection name cannot be empty")
		}
		coll.Name = *in.Name
	}
	if in.Description != nil {
		coll.Description = *in.Description
	}
	if in.Order != nil {
		coll.Order = *in.Order
	}

	coll.Touch()
	if err := s.store.UpdateCollection(ctx, coll); err != nil {
		return nil, mapStoreErr(err, "collection")
	}
	return coll, nil
}

// DeleteCollection removes a collection; its bookmarks are orphaned, not
// deleted.
func (s *CollectionService) DeleteCollection(ctx context.Context, ownerID, collID string) error {
	if _, err := s.GetCollection(ctx, ownerID, collID); err != nil {
		return err
	}
	if err := s.store.DeleteCollection(ctx, collID); err != nil {
		return mapStoreErr(err, "collection")
	}
	s.logger.Info("collection deleted", "collection_id", collID, "owner_id", ownerID)
	return nil
}

// ListCollections returns the owner's collections ordered by sort order,
// then name.
func (s *CollectionService) ListCollections(ctx context.Context, ownerID string) ([]*domain.Collection, error) {
	return s.store.ListCollections(ctx, ownerID)
}
