// Package urlnorm canonicalizes bookmark URLs so that equality of the
// normalized form means "same logical resource".
//
// Normalization is deliberately lossy: tracking parameters are dropped,
// the www. prefix is stripped, and empty path segments collapse. The
// original URL is never stored in normalized form; callers keep the raw
// URL and use the normalized one only for comparison and grouping.
package urlnorm

import (
	"net/url"
	"strings"
)

// DuplicateMarker is the query parameter some importers append to force a
// second copy of an already-saved URL past uniqueness checks. Its presence
// (any value) marks the bookmark as an intentional duplicate of the base URL.
const DuplicateMarker = "_dup"

// trackingParams are query parameters removed during normalization. Any
// parameter with the "utm_" prefix is removed as well.
var trackingParams = map[string]struct{}{
	"fbclid":        {},
	"gclid":         {},
	"ocid":          {},
	"dclid":         {},
	"ref":           {},
	"source":        {},
	"referrer":      {},
	"referral":      {},
	"_ga":           {},
	"_gl":           {},
	"mc_cid":        {},
	"mc_eid":        {},
	"session_id":    {},
	"tracking_id":   {},
	"click_id":      {},
	DuplicateMarker: {},
}

// Normalize returns the canonical form of raw. It is idempotent:
// Normalize(Normalize(u)) == Normalize(u) for every input.
//
// If raw cannot be parsed as a URL it is returned unchanged; a garbage
// input still groups with its byte-identical twins.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	// Scheme-less inputs ("example.com/a") parse as opaque paths; give
	// them the default scheme before parsing.
	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "https://" + raw
	}

	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return raw
	}

	// http folds into https: the two forms address the same resource for
	// grouping purposes, and most hosts redirect http to https anyway.
	if u.Scheme == "http" {
		u.Scheme = "https"
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	u.Host = host

	u.Path = collapsePath(u.Path)
	u.RawQuery = cleanQuery(u.Query())

	// A named fragment survives, it can address a distinct document
	// section. An empty one ("#") is dropped by URL.String.
	return u.String()
}

// HasDuplicateMarker reports whether raw carries the intentional-duplicate
// query parameter.
func HasDuplicateMarker(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Query().Has(DuplicateMarker)
}

// StripDuplicateMarker returns the normalized form of raw without the
// duplicate marker, i.e. the base URL the duplicate points at.
func StripDuplicateMarker(raw string) string {
	// Normalize already removes the marker with the rest of the tracking
	// parameters.
	return Normalize(raw)
}

// Domain returns the lowercased host of raw without the www. prefix, or
// "" when raw has no parseable host.
func Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// collapsePath squeezes repeated slashes and drops the trailing slash.
// The root path normalizes to "".
func collapsePath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimSuffix(p, "/")
	return p
}

// cleanQuery drops tracking parameters and re-encodes the rest. url.Values
// encodes keys in sorted order, which makes parameter order irrelevant to
// the canonical form. Denylist matching is case-insensitive; trackers
// arrive in the wild as FBCLID as often as fbclid.
func cleanQuery(q url.Values) string {
	for key := range q {
		lower := strings.ToLower(key)
		if _, ok := trackingParams[lower]; ok {
			q.Del(key)
			continue
		}
		if strings.HasPrefix(lower, "utm_") {
			q.Del(key)
		}
	}
	return q.Encode()
}
