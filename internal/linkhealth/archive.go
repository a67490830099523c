package linkhealth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultArchiveBaseURL is the public web archive availability endpoint.
const DefaultArchiveBaseURL = "https://archive.org"

// ArchiveClient queries the web archive for the closest snapshot of a URL.
// Requests are rate limited; the availability API throttles aggressively.
type ArchiveClient struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// ArchiveConfig tunes the archive client.
type ArchiveConfig struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps outbound lookups. Zero means 1 rps.
	RequestsPerSecond float64
	UserAgent         string
}

// NewArchiveClient returns an ArchiveClient with the given config.
func NewArchiveClient(cfg ArchiveConfig) *ArchiveClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultArchiveBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	return &ArchiveClient{
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		userAgent: cfg.UserAgent,
	}
}

// availabilityResponse mirrors the wayback availability API payload.
type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Lookup returns the snapshot URL for target, or ok=false when the archive
// has none. Transport and decode failures are returned as errors so the
// caller can distinguish "no snapshot" from "archive unreachable".
func (c *ArchiveClient) Lookup(ctx context.Context, target string) (snapshotURL string, ok bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	endpoint := fmt.Sprintf("%s/wayback/available?url=%s", c.baseURL, url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("archive availability: HTTP %d", resp.StatusCode)
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("decode availability response: %w", err)
	}

	closest := payload.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return "", false, nil
	}
	return closest.URL, true, nil
}
