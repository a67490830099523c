// Package main provides a one-shot link-health batch runner. It probes the
// bookmarks whose next check has come due and exits, which suits cron-style
// scheduling alongside a server with the background job disabled.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/service"
	"github.com/bookmeup/bookmeup-server/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	db, err := sqlite.Open(filepath.Join(cfg.Storage.BasePath, "bookmeup.db"), log.Logger)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}
	defer db.Close()

	prober := linkhealth.NewProber(linkhealth.ProberConfig{
		Timeout:      cfg.Health.Timeout,
		MaxRedirects: cfg.Health.MaxRedirects,
		UserAgent:    cfg.Health.UserAgent,
	})
	archive := linkhealth.NewArchiveClient(linkhealth.ArchiveConfig{
		BaseURL:           cfg.Health.ArchiveBaseURL,
		Timeout:           cfg.Health.Timeout,
		RequestsPerSecond: cfg.Health.ArchiveRPS,
		UserAgent:         cfg.Health.UserAgent,
	})

	// No search service: batch probes never touch the index.
	svc := service.NewLinkHealthService(db, nil, service.LinkHealthOptions{
		Prober:  prober,
		Archive: archive,
		Backoff: linkhealth.Backoff{
			OKInterval:         cfg.Health.OKInterval,
			RedirectedInterval: cfg.Health.RedirectedInterval,
			BrokenInterval:     cfg.Health.BrokenInterval,
			Multiplier:         cfg.Health.BackoffMultiplier,
			MaxInterval:        cfg.Health.MaxInterval,
		},
		Workers: cfg.Health.Workers,
	}, log.Logger)

	result, err := svc.ProcessDue(context.Background(), cfg.Health.BatchSize)
	if err != nil {
		log.Fatal("Link check batch failed", "error", err)
	}

	if result.Checked == 0 {
		log.Info("No bookmarks due for checking")
		return
	}

	log.Info("Link check batch completed",
		"run_id", result.RunID,
		"checked", result.Checked,
		"failed", result.Failed,
	)
	for status, count := range result.ByStatus {
		log.Info("Batch outcome", "status", string(status), "count", count)
	}
}
