package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/dedup"
	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func TestDetectDuplicatesScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	svc := NewDedupService(st, dedup.NewDetector(dedup.DefaultConfig()), testLogger())
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	ctx := context.Background()

	a1 := seedBookmark(t, st, alice.ID, "https://example.com/post", "Post")
	a2 := seedBookmark(t, st, alice.ID, "http://www.example.com/post/", "Post copy")
	seedBookmark(t, st, alice.ID, "https://other.example.com/unrelated", "Something else entirely")

	// Bob's identical URL must not leak into Alice's groups.
	seedBookmark(t, st, bob.ID, "https://example.com/post", "Post")

	groups, err := svc.DetectDuplicates(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	assert.Equal(t, domain.DuplicateByURL, groups[0].Kind)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, groups[0].MemberIDs())

	groups, err = svc.DetectDuplicates(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDetectDuplicatesExcludesArchived(t *testing.T) {
	st := newTestStore(t)
	svc := NewDedupService(st, dedup.NewDetector(dedup.DefaultConfig()), testLogger())
	alice := seedUser(t, st, "alice")
	ctx := context.Background()

	seedBookmark(t, st, alice.ID, "https://example.com/post", "Post")
	archived := seedBookmark(t, st, alice.ID, "https://example.com/post?utm_source=feed", "Post")
	archived.IsArchived = true
	require.NoError(t, st.UpdateBookmark(ctx, archived))

	// The archived copy would share the active one's canonical URL, but
	// archived bookmarks never enter detection.
	groups, err := svc.DetectDuplicates(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
