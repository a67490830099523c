package domain

import "time"

// HealthStatus classifies a bookmark's live reachability.
type HealthStatus string

const (
	// HealthPending means the link has not been probed yet (or was reset
	// after a manual URL change).
	HealthPending HealthStatus = "pending"
	// HealthOK means the link resolved without redirects or errors.
	HealthOK HealthStatus = "ok"
	// HealthRedirected means the link resolved but the final URL differs
	// from the stored one.
	HealthRedirected HealthStatus = "redirected"
	// HealthBroken means the link returned >=400 or failed at the
	// transport level, with no archived snapshot available.
	HealthBroken HealthStatus = "broken"
	// HealthArchived means the link is broken but a web-archive snapshot
	// exists; ArchiveURL holds the fallback.
	HealthArchived HealthStatus = "archived"
)

// LinkHealth is the one-to-one health record for a bookmark.
type LinkHealth struct {
	BookmarkID string       `json:"bookmark_id"`
	Status     HealthStatus `json:"status"`

	LastChecked *time.Time `json:"last_checked,omitempty"`
	// NextCheck is the earliest time the bookmark is eligible for a
	// re-probe. Always set once the record exists.
	NextCheck time.Time `json:"next_check"`

	FinalURL     string `json:"final_url,omitempty"`
	StatusCode   int    `json:"status_code,omitempty"`
	ResponseTime int    `json:"response_time,omitempty"` // milliseconds
	ErrorMessage string `json:"error_message,omitempty"`
	ArchiveURL   string `json:"archive_url,omitempty"`
	CheckCount   int    `json:"check_count"`
}
