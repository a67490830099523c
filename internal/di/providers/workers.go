package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

// LinkCheckJob runs periodic link-health batch checks.
type LinkCheckJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *LinkCheckJob) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// ProvideLinkCheckJob provides the periodic link-health job. Every tick it
// probes the bookmarks whose next check has come due.
func ProvideLinkCheckJob(i do.Injector) (*LinkCheckJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	linkHealthService := do.MustInvoke[*service.LinkHealthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Health.CheckInterval <= 0 {
		log.Info("Link check job disabled by configuration")
		return &LinkCheckJob{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(cfg.Health.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				result, err := linkHealthService.ProcessDue(ctx, cfg.Health.BatchSize)
				if err != nil {
					log.Warn("Link check batch failed", "error", err)
					continue
				}
				if result.Checked > 0 {
					log.Info("Link check batch completed",
						"run_id", result.RunID,
						"checked", result.Checked,
						"failed", result.Failed,
					)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Link check job started",
		"interval", cfg.Health.CheckInterval,
		"batch_size", cfg.Health.BatchSize,
	)

	return &LinkCheckJob{cancel: cancel}, nil
}
