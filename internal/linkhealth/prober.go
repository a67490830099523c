// Package linkhealth probes bookmarked URLs and classifies the outcome.
//
// A probe is a HEAD request with a bounded redirect chain, downgraded to
// GET for servers that reject HEAD. The package also talks to the web
// archive's availability API so broken links can fall back to a snapshot,
// and computes re-check schedules with a configurable backoff.
package linkhealth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

// ErrTooManyRedirects is reported when a probe exceeds the redirect ceiling.
var ErrTooManyRedirects = errors.New("too many redirects")

// Result is the outcome of probing a single URL.
type Result struct {
	Status       domain.HealthStatus
	FinalURL     string
	StatusCode   int
	ResponseTime time.Duration
	ErrorMessage string
}

// ProberConfig tunes the HTTP prober.
type ProberConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
}

// Prober issues health probes over HTTP.
type Prober struct {
	client       *http.Client
	maxRedirects int
	userAgent    string
}

// NewProber returns a Prober with the given config. Zero values fall back
// to a 10 second timeout and 5 redirects.
func NewProber(cfg ProberConfig) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 5
	}

	p := &Prober{
		maxRedirects: cfg.MaxRedirects,
		userAgent:    cfg.UserAgent,
	}
	p.client = &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= p.maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
	return p
}

// Check probes url and classifies the result. The status is one of OK
// (resolved in place), Redirected (resolved at a different final URL) or
// Broken (HTTP >= 400, transport failure, or redirect ceiling exceeded).
// Archive fallback for broken links is layered on by the caller.
func (p *Prober) Check(ctx context.Context, url string) Result {
	start := time.Now()

	resp, err := p.do(ctx, http.MethodHead, url)
	if err == nil && rejectsHead(resp.StatusCode) {
		resp.Body.Close()
		resp, err = p.do(ctx, http.MethodGet, url)
	}
	elapsed := time.Since(start)

	if err != nil {
		return Result{
			Status:       domain.HealthBroken,
			ResponseTime: elapsed,
			ErrorMessage: errorMessage(err),
		}
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	result := Result{
		FinalURL:     final,
		StatusCode:   resp.StatusCode,
		ResponseTime: elapsed,
	}

	switch {
	case resp.StatusCode >= 400:
		result.Status = domain.HealthBroken
		result.ErrorMessage = fmt.Sprintf("HTTP %d", resp.StatusCode)
	case final != url:
		result.Status = domain.HealthRedirected
	default:
		result.Status = domain.HealthOK
	}
	return result
}

func (p *Prober) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	return p.client.Do(req)
}

// rejectsHead reports status codes that indicate the server does not
// support HEAD rather than the resource being gone.
func rejectsHead(code int) bool {
	return code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented
}

// errorMessage unwraps the redirect-ceiling sentinel so the stored message
// stays short; other transport errors are recorded verbatim.
func errorMessage(err error) string {
	if errors.Is(err, ErrTooManyRedirects) {
		return ErrTooManyRedirects.Error()
	}
	return err.Error()
}
