package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	apperrors "github.com/bookmeup/bookmeup-server/internal/errors"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

func newLinkHealthService(t *testing.T, st store.Store, archive *linkhealth.ArchiveClient) *LinkHealthService {
	t.Helper()
	return NewLinkHealthService(st, nil, LinkHealthOptions{
		Prober:  linkhealth.NewProber(linkhealth.ProberConfig{Timeout: 5 * time.Second}),
		Archive: archive,
		Backoff: linkhealth.DefaultBackoff(),
		Workers: 2,
	}, testLogger())
}

func TestCheckBookmarkOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st := newTestStore(t)
	svc := newLinkHealthService(t, st, nil)
	owner := seedUser(t, st, "alice")
	b := seedBookmark(t, st, owner.ID, srv.URL, "OK")
	ctx := context.Background()

	lh, err := svc.CheckBookmark(ctx, owner.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.HealthOK, lh.Status)
	assert.Equal(t, http.StatusOK, lh.StatusCode)
	assert.Equal(t, 1, lh.CheckCount)
	require.NotNil(t, lh.LastChecked)
	assert.True(t, lh.NextCheck.After(*lh.LastChecked))

	// A second check bumps the counter.
	lh, err = svc.CheckBookmark(ctx, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, lh.CheckCount)
}

func TestCheckBookmarkBrokenWithArchive(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	archiveSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"archived_snapshots": map[string]any{
				"closest": map[string]any{
					"available": true,
					"url":       "https://web.archive.org/web/2025/" + r.URL.Query().Get("url"),
				},
			},
		})
	}))
	defer archiveSrv.Close()

	archive := linkhealth.NewArchiveClient(linkhealth.ArchiveConfig{
		BaseURL:           archiveSrv.URL,
		RequestsPerSecond: 100,
	})

	st := newTestStore(t)
	svc := newLinkHealthService(t, st, archive)
	owner := seedUser(t, st, "alice")
	b := seedBookmark(t, st, owner.ID, broken.URL, "Gone")

	lh, err := svc.CheckBookmark(context.Background(), owner.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.HealthArchived, lh.Status)
	assert.Contains(t, lh.ArchiveURL, "web.archive.org")
}

func TestCheckBookmarkRecoveryClearsArchiveURL(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	archiveSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"archived_snapshots": map[string]any{
				"closest": map[string]any{
					"available": true,
					"url":       "https://web.archive.org/web/2025/" + r.URL.Query().Get("url"),
				},
			},
		})
	}))
	defer archiveSrv.Close()

	archive := linkhealth.NewArchiveClient(linkhealth.ArchiveConfig{
		BaseURL:           archiveSrv.URL,
		RequestsPerSecond: 100,
	})

	st := newTestStore(t)
	svc := newLinkHealthService(t, st, archive)
	owner := seedUser(t, st, "alice")
	b := seedBookmark(t, st, owner.ID, srv.URL, "Flaky")
	ctx := context.Background()

	lh, err := svc.CheckBookmark(ctx, owner.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.HealthArchived, lh.Status)
	require.NotEmpty(t, lh.ArchiveURL)

	// The link comes back; the stale snapshot goes away with the status.
	status.Store(http.StatusOK)
	lh, err = svc.CheckBookmark(ctx, owner.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.HealthOK, lh.Status)
	assert.Empty(t, lh.ArchiveURL)
}

func TestProcessDue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st := newTestStore(t)
	svc := newLinkHealthService(t, st, nil)
	owner := seedUser(t, st, "alice")
	seedBookmark(t, st, owner.ID, srv.URL+"/one", "One")
	seedBookmark(t, st, owner.ID, srv.URL+"/two", "Two")
	ctx := context.Background()

	result, err := svc.ProcessDue(ctx, 10)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Checked)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2, result.ByStatus[domain.HealthOK])

	// Everything was just probed, so nothing is due anymore.
	result, err = svc.ProcessDue(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, result.Checked)
}

func TestListDueScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	svc := newLinkHealthService(t, st, nil)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	// Bob's bookmark is older, so it would win a global limit; the
	// owner scope must apply before the limit does.
	seedBookmark(t, st, bob.ID, "https://example.com/theirs", "Theirs")
	b := seedBookmark(t, st, alice.ID, "https://example.com/mine", "Mine")
	ctx := context.Background()

	due, err := svc.ListDue(ctx, alice.ID, 1)
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, b.ID, due[0].ID)
}

func TestApplyRedirect(t *testing.T) {
	st := newTestStore(t)
	svc := newLinkHealthService(t, st, nil)
	owner := seedUser(t, st, "alice")
	b := seedBookmark(t, st, owner.ID, "https://example.com/old", "Moved")
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.UpsertLinkHealth(ctx, &domain.LinkHealth{
		BookmarkID:  b.ID,
		Status:      domain.HealthRedirected,
		LastChecked: &now,
		NextCheck:   now.Add(time.Hour),
		FinalURL:    "https://example.org/new",
		CheckCount:  1,
	}))

	updated, err := svc.ApplyRedirect(ctx, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/new", updated.URL)
	assert.Equal(t, "example.org", updated.Domain)

	_, err = st.GetLinkHealth(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyRedirectRequiresRedirectedStatus(t *testing.T) {
	st := newTestStore(t)
	svc := newLinkHealthService(t, st, nil)
	owner := seedUser(t, st, "alice")
	b := seedBookmark(t, st, owner.ID, "https://example.com/fine", "Fine")
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.UpsertLinkHealth(ctx, &domain.LinkHealth{
		BookmarkID:  b.ID,
		Status:      domain.HealthOK,
		LastChecked: &now,
		NextCheck:   now.Add(time.Hour),
		CheckCount:  1,
	}))

	_, err := svc.ApplyRedirect(ctx, owner.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
