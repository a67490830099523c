package service

import (
	"context"
	"log/slog"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// TagService manages tags.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: st, logger: logger}
}

// CreateTag creates a tag. Names are unique per owner.
func (s *TagService) CreateTag(ctx context.Context, ownerID, name, color string, order int) (*domain.Tag, error) {
	if name == "" {
		return nil, apperrors.Validation("tag name is required")
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, apperrors.Internal("generate tag id", err)
	}

	tag := &domain.Tag{
		ID:      tagID,
		OwnerID: ownerID,
		Name:    name,
		Color:   color,
		Order:   order,
	}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, mapStoreErr(err, "tag")
	}
	return tag, nil
}

// GetTag returns a tag owned by ownerID.
func (s *TagService) GetTag(ctx context.Context, ownerID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreErr(err, "tag")
	}
	if tag.OwnerID != ownerID {
		return nil, apperrors.Forbidden("tag belongs to another user")
	}
	return tag, nil
}

// UpdateTagInput carries updatable tag fields; nil leaves a field alone.
type UpdateTagInput struct {
	Name  *string
	Color *string
	Order *int
}

// UpdateTag applies a partial update.
func (s *TagService) UpdateTag(ctx context.Context, ownerID, tagID string, in UpdateTagInput) (*domain.Tag, error) {
	tag, err := s.GetTag(ctx, ownerID, tagID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.Validation("tag name cannot be empty")
		}
		tag.Name = *in.Name
	}
	if in.Color != nil {
		tag.Color = *in.Color
	}
	if in.Order != nil {
		tag.Order = *in.Order
	}

	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, mapStoreErr(err, "tag")
	}
	return tag, nil
}

// DeleteTag removes a tag; bookmarks carrying it are detached, not deleted.
func (s *TagService) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	if _, err := s.GetTag(ctx, ownerID, tagID); err != nil {
		return err
	}
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return mapStoreErr(err, "tag")
	}
	s.logger.Info("tag deleted", "tag_id", tagID, "owner_id", ownerID)
	return nil
}

// ListTags returns the owner's tags ordered by sort order, then name.
func (s *TagService) ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, ownerID)
}
