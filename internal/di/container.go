// Package di provides dependency injection configuration for the BookMeUp server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/dedup"
	"github.com/bookmeup/bookmeup-server/internal/di/providers"
	"github.com/bookmeup/bookmeup-server/internal/enrich"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideBootstrap)

	// Outbound clients
	do.Provide(injector, providers.ProvideEnricher)
	do.Provide(injector, providers.ProvideProber)
	do.Provide(injector, providers.ProvideArchiveClient)
	do.Provide(injector, providers.ProvideDetector)

	// Business services
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideBookmarkService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideActivityService)
	do.Provide(injector, providers.ProvideDedupService)
	do.Provide(injector, providers.ProvideMergeService)
	do.Provide(injector, providers.ProvideLinkHealthService)

	// Workers
	do.Provide(injector, providers.ProvideLinkCheckJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.Bootstrap](injector)

	// Outbound clients
	_ = do.MustInvoke[*enrich.Enricher](injector)
	_ = do.MustInvoke[*linkhealth.Prober](injector)
	_ = do.MustInvoke[*linkhealth.ArchiveClient](injector)
	_ = do.MustInvoke[*dedup.Detector](injector)

	// Business services
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.BookmarkService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.ActivityService](injector)
	_ = do.MustInvoke[*service.DedupService](injector)
	_ = do.MustInvoke[*service.MergeService](injector)
	_ = do.MustInvoke[*service.LinkHealthService](injector)

	// Workers
	_ = do.MustInvoke[*providers.LinkCheckJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
