package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/dedup"
	"github.com/bookmeup/bookmeup-server/internal/enrich"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
)

// ProvideEnricher provides the page-metadata enricher.
func ProvideEnricher(i do.Injector) (*enrich.Enricher, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return enrich.New(enrich.Config{
		Timeout:          cfg.Enrich.Timeout,
		MaxContentLength: cfg.Enrich.MaxContentLength,
		UserAgent:        cfg.Health.UserAgent,
		BlockedDomains:   cfg.Enrich.BlockedDomains,
	}), nil
}

// ProvideProber provides the link-health HTTP prober.
func ProvideProber(i do.Injector) (*linkhealth.Prober, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return linkhealth.NewProber(linkhealth.ProberConfig{
		Timeout:      cfg.Health.Timeout,
		MaxRedirects: cfg.Health.MaxRedirects,
		UserAgent:    cfg.Health.UserAgent,
	}), nil
}

// ProvideArchiveClient provides the web-archive availability client.
func ProvideArchiveClient(i do.Injector) (*linkhealth.ArchiveClient, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return linkhealth.NewArchiveClient(linkhealth.ArchiveConfig{
		BaseURL:           cfg.Health.ArchiveBaseURL,
		Timeout:           cfg.Health.Timeout,
		RequestsPerSecond: cfg.Health.ArchiveRPS,
		UserAgent:         cfg.Health.UserAgent,
	}), nil
}

// ProvideDetector provides the duplicate detector.
func ProvideDetector(i do.Injector) (*dedup.Detector, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return dedup.NewDetector(dedup.Config{
		TitleThreshold: cfg.Dedup.TitleThreshold,
		IndexCutoff:    cfg.Dedup.IndexCutoff,
	}), nil
}

// backoffFromConfig builds the recheck schedule from configuration.
func backoffFromConfig(cfg *config.Config) linkhealth.Backoff {
	return linkhealth.Backoff{
		OKInterval:         cfg.Health.OKInterval,
		RedirectedInterval: cfg.Health.RedirectedInterval,
		BrokenInterval:     cfg.Health.BrokenInterval,
		Multiplier:         cfg.Health.BackoffMultiplier,
		MaxInterval:        cfg.Health.MaxInterval,
	}
}
