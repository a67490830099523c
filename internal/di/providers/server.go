package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/api"
	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Bookmark:   do.MustInvoke[*service.BookmarkService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
		Collection: do.MustInvoke[*service.CollectionService](i),
		Note:       do.MustInvoke[*service.NoteService](i),
		Activity:   do.MustInvoke[*service.ActivityService](i),
		Search:     do.MustInvoke[*service.SearchService](i),
		Dedup:      do.MustInvoke[*service.DedupService](i),
		Merge:      do.MustInvoke[*service.MergeService](i),
		LinkHealth: do.MustInvoke[*service.LinkHealthService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
