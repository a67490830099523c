package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Plain Title</title>
  <meta name="description" content="Plain description.">
  <meta property="og:title" content="OpenGraph Title">
  <meta property="og:description" content="OpenGraph description.">
  <link rel="icon" href="/static/favicon.png">
</head>
<body>
  <h1>Heading</h1>
  <p>Some <strong>bold</strong> paragraph text.</p>
</body>
</html>`

func TestParseMetadata(t *testing.T) {
	base, _ := url.Parse("https://example.com/articles/1")

	meta, err := ParseMetadata(strings.NewReader(samplePage), base)
	require.NoError(t, err)

	// OpenGraph values win over the plain tags.
	assert.Equal(t, "OpenGraph Title", meta.Title)
	assert.Equal(t, "OpenGraph description.", meta.Description)
	assert.Equal(t, "https://example.com/static/favicon.png", meta.FaviconURL)
}

func TestParseMetadataFallbacks(t *testing.T) {
	page := `<html><head><title>Only Title</title></head><body></body></html>`
	base, _ := url.Parse("https://example.com/page")

	meta, err := ParseMetadata(strings.NewReader(page), base)
	require.NoError(t, err)
	assert.Equal(t, "Only Title", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Equal(t, "https://example.com/favicon.ico", meta.FaviconURL)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := New(Config{UserAgent: "bookmeup-test"})
	result, err := e.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "OpenGraph Title", result.Title)
	assert.Contains(t, result.Content, "Heading")
	assert.Contains(t, result.Content, "**bold**")
}

func TestFetchNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.5"))
	}))
	defer srv.Close()

	e := New(Config{})
	result, err := e.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, result.Title)
	assert.Empty(t, result.Content)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	e := New(Config{})
	_, err := e.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestBlockedDomains(t *testing.T) {
	e := New(Config{BlockedDomains: []string{"paywall.example.com"}})

	assert.True(t, e.Blocked("https://paywall.example.com/article"))
	assert.False(t, e.Blocked("https://open.example.com/article"))

	_, err := e.Fetch(context.Background(), "https://paywall.example.com/article")
	assert.Error(t, err)
}
