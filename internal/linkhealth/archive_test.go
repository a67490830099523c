package linkhealth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchiveServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wayback/available", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("url"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestArchiveLookupHit(t *testing.T) {
	body := `{
		"archived_snapshots": {
			"closest": {
				"available": true,
				"url": "http://web.archive.org/web/20240101000000/https://example.com/",
				"timestamp": "20240101000000"
			}
		}
	}`
	srv := newArchiveServer(t, body, http.StatusOK)

	c := NewArchiveClient(ArchiveConfig{BaseURL: srv.URL, RequestsPerSecond: 100})
	snapshot, ok, err := c.Lookup(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://web.archive.org/web/20240101000000/https://example.com/", snapshot)
}

func TestArchiveLookupMiss(t *testing.T) {
	srv := newArchiveServer(t, `{"archived_snapshots": {}}`, http.StatusOK)

	c := NewArchiveClient(ArchiveConfig{BaseURL: srv.URL, RequestsPerSecond: 100})
	snapshot, ok, err := c.Lookup(context.Background(), "https://example.com/never-saved")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, snapshot)
}

func TestArchiveLookupError(t *testing.T) {
	srv := newArchiveServer(t, `upstream sadness`, http.StatusBadGateway)

	c := NewArchiveClient(ArchiveConfig{BaseURL: srv.URL, RequestsPerSecond: 100})
	_, ok, err := c.Lookup(context.Background(), "https://example.com/")
	assert.Error(t, err)
	assert.False(t, ok)
}
