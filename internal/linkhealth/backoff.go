package linkhealth

import (
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

// Backoff computes when a bookmark should be probed again. Each status has
// a base interval; repeated checks stretch the interval geometrically up
// to a ceiling, so long-stable links are probed less and less often.
type Backoff struct {
	OKInterval         time.Duration
	RedirectedInterval time.Duration
	BrokenInterval     time.Duration
	// Multiplier stretches the base interval per completed check.
	// Values <= 1 disable backoff growth.
	Multiplier  float64
	MaxInterval time.Duration
}

// DefaultBackoff returns the standard schedule: healthy links weekly,
// redirected links daily, broken links every six hours, doubling per
// check and capped at 30 days.
func DefaultBackoff() Backoff {
	return Backoff{
		OKInterval:         7 * 24 * time.Hour,
		RedirectedInterval: 24 * time.Hour,
		BrokenInterval:     6 * time.Hour,
		Multiplier:         2,
		MaxInterval:        30 * 24 * time.Hour,
	}
}

// Next returns the interval to wait before the probe after this one.
// checkCount is the number of completed checks, including the current one.
func (b Backoff) Next(status domain.HealthStatus, checkCount int) time.Duration {
	base := b.base(status)
	if b.Multiplier <= 1 || checkCount <= 1 {
		return b.clamp(base)
	}

	interval := base
	for i := 1; i < checkCount; i++ {
		interval = time.Duration(float64(interval) * b.Multiplier)
		if b.MaxInterval > 0 && interval >= b.MaxInterval {
			return b.MaxInterval
		}
	}
	return b.clamp(interval)
}

func (b Backoff) base(status domain.HealthStatus) time.Duration {
	switch status {
	case domain.HealthBroken, domain.HealthArchived:
		return b.BrokenInterval
	case domain.HealthRedirected:
		return b.RedirectedInterval
	default:
		return b.OKInterval
	}
}

func (b Backoff) clamp(d time.Duration) time.Duration {
	if b.MaxInterval > 0 && d > b.MaxInterval {
		return b.MaxInterval
	}
	return d
}
