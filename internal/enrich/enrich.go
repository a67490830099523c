// Package enrich fetches a bookmarked page and extracts its metadata
// (title, description, favicon) and a markdown rendition of the content
// for full-text search.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/bookmeup/bookmeup-server/internal/urlnorm"
)

// Metadata is what the page says about itself.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}

// Result is the outcome of enriching one URL.
type Result struct {
	Metadata
	// Content is the page body converted to markdown, truncated to the
	// configured maximum.
	Content string `json:"content,omitempty"`
}

// Config tunes the enricher.
type Config struct {
	Timeout time.Duration
	// MaxContentLength caps both the fetched body and the stored
	// markdown, in bytes. Zero means 1 MiB.
	MaxContentLength int64
	UserAgent        string
	// BlockedDomains are never fetched (paywalls, internal hosts).
	BlockedDomains []string
}

// Enricher fetches pages and extracts metadata and content.
type Enricher struct {
	client     *http.Client
	maxContent int64
	userAgent  string
	blocked    map[string]struct{}
}

// New returns an Enricher with the given config.
func New(cfg Config) *Enricher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = 1 << 20
	}
	blocked := make(map[string]struct{}, len(cfg.BlockedDomains))
	for _, d := range cfg.BlockedDomains {
		blocked[strings.ToLower(d)] = struct{}{}
	}
	return &Enricher{
		client:     &http.Client{Timeout: cfg.Timeout},
		maxContent: cfg.MaxContentLength,
		userAgent:  cfg.UserAgent,
		blocked:    blocked,
	}
}

// Blocked reports whether enrichment is disabled for the URL's domain.
func (e *Enricher) Blocked(rawURL string) bool {
	_, ok := e.blocked[urlnorm.Domain(rawURL)]
	return ok
}

// Fetch downloads the page at rawURL and extracts metadata and markdown
// content. Non-HTML responses yield an empty Result without error; a
// bookmark pointing at a PDF is fine, there is just nothing to extract.
func (e *Enricher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if e.Blocked(rawURL) {
		return nil, fmt.Errorf("domain %s is blocked for enrichment", urlnorm.Domain(rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return &Result{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxContent))
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}

	meta, err := ParseMetadata(strings.NewReader(string(body)), resp.Request.URL)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	result := &Result{Metadata: *meta}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err == nil {
		markdown = strings.TrimSpace(markdown)
		if int64(len(markdown)) > e.maxContent {
			markdown = markdown[:e.maxContent]
		}
		result.Content = markdown
	}

	return result, nil
}

// resolveRef resolves a possibly-relative href against the page URL.
func resolveRef(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
