package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func TestReconcileMerge(t *testing.T) {
	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	visit := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	primary := &domain.Bookmark{
		ID:        "bm-1",
		Title:     "Kept Title",
		CreatedAt: later,
		TagIDs:    []string{"tag-a", "tag-b"},
	}
	dups := []*domain.Bookmark{
		{
			ID:          "bm-2",
			Title:       "Ignored Title",
			Description: "From the duplicate",
			Notes:       "legacy note",
			IsFavorite:  true,
			CreatedAt:   earlier,
			VisitedAt:   &visit,
			TagIDs:      []string{"tag-b", "tag-c"},
		},
		{
			ID:           "bm-3",
			CollectionID: "col-1",
			IsRead:       true,
			CreatedAt:    later,
			TagIDs:       []string{"tag-a"},
		},
	}

	ReconcileMerge(primary, dups)

	assert.Equal(t, "Kept Title", primary.Title)
	assert.Equal(t, "From the duplicate", primary.Description)
	assert.Equal(t, "legacy note", primary.Notes)
	assert.Equal(t, "col-1", primary.CollectionID)
	assert.True(t, primary.IsFavorite)
	assert.True(t, primary.IsRead)
	assert.Equal(t, earlier, primary.CreatedAt)
	require.NotNil(t, primary.VisitedAt)
	assert.Equal(t, visit, *primary.VisitedAt)
	assert.Equal(t, []string{"tag-a", "tag-b", "tag-c"}, primary.TagIDs)
}

func TestMergeAbsorbsDuplicates(t *testing.T) {
	st := newTestStore(t)
	svc := NewMergeService(st, nil, testLogger())
	owner := seedUser(t, st, "alice")
	ctx := context.Background()

	primary := seedBookmark(t, st, owner.ID, "https://example.com/article", "Article")
	dup := seedBookmark(t, st, owner.ID, "https://example.com/article?utm_source=x", "Article")

	result, err := svc.Merge(ctx, owner.ID, primary.ID, []string{dup.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{dup.ID}, result.Merged)
	assert.Empty(t, result.Failed)

	_, err = st.GetBookmark(ctx, dup.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	acts, err := st.ListActivities(ctx, primary.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, acts)
	assert.Equal(t, domain.ActivityMerged, acts[0].Type)
	assert.Equal(t, dup.ID, acts[0].Metadata["merged_from"])
}

func TestMergePreservesDuplicateNotes(t *testing.T) {
	st := newTestStore(t)
	svc := NewMergeService(st, nil, testLogger())
	owner := seedUser(t, st, "alice")
	ctx := context.Background()

	primary := seedBookmark(t, st, owner.ID, "https://example.com/a", "A")
	dup := seedBookmark(t, st, owner.ID, "https://example.com/b", "B")

	note := &domain.Note{
		ID:         "note-dup",
		BookmarkID: dup.ID,
		UserID:     owner.ID,
		Content:    "<p>keep me</p>",
		PlainText:  "keep me",
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.CreateNote(ctx, note))

	_, err := svc.Merge(ctx, owner.ID, primary.ID, []string{dup.ID})
	require.NoError(t, err)

	// The duplicate's note survives on the primary and, being the only
	// note in the group, ends up active again.
	active, err := st.GetActiveNote(ctx, primary.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", active.PlainText)
}

func TestMergeToleratesPrimaryInDuplicateList(t *testing.T) {
	st := newTestStore(t)
	svc := NewMergeService(st, nil, testLogger())
	owner := seedUser(t, st, "alice")
	ctx := context.Background()

	primary := seedBookmark(t, st, owner.ID, "https://example.com/a", "A")
	dup := seedBookmark(t, st, owner.ID, "https://example.com/a?utm_source=x", "A")

	// The primary's own id in the list is dropped, not rejected; the
	// remaining duplicate still merges.
	result, err := svc.Merge(ctx, owner.ID, primary.ID, []string{primary.ID, dup.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{dup.ID}, result.Merged)
	_, err = st.GetBookmark(ctx, dup.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMergeValidation(t *testing.T) {
	st := newTestStore(t)
	svc := NewMergeService(st, nil, testLogger())
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	ctx := context.Background()

	primary := seedBookmark(t, st, alice.ID, "https://example.com/a", "A")
	foreign := seedBookmark(t, st, bob.ID, "https://example.com/b", "B")

	_, err := svc.Merge(ctx, alice.ID, primary.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Merge(ctx, alice.ID, primary.ID, []string{primary.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Merge(ctx, alice.ID, primary.ID, []string{foreign.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
