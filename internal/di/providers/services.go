package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/dedup"
	"github.com/bookmeup/bookmeup-server/internal/enrich"
	"github.com/bookmeup/bookmeup-server/internal/linkhealth"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/service"
)

// ProvideSearchService provides the full-text search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.Index, storeHandle.Store, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	enricher := do.MustInvoke[*enrich.Enricher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookmarkService(storeHandle.Store, searchService, enricher, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, searchService, log.Logger), nil
}

// ProvideActivityService provides the activity feed service.
func ProvideActivityService(i do.Injector) (*service.ActivityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewActivityService(storeHandle.Store, log.Logger), nil
}

// ProvideDedupService provides the duplicate-detection service.
func ProvideDedupService(i do.Injector) (*service.DedupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	detector := do.MustInvoke[*dedup.Detector](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDedupService(storeHandle.Store, detector, log.Logger), nil
}

// ProvideMergeService provides the duplicate-merge service.
func ProvideMergeService(i do.Injector) (*service.MergeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMergeService(storeHandle.Store, searchService, log.Logger), nil
}

// ProvideLinkHealthService provides the link-health service.
func ProvideLinkHealthService(i do.Injector) (*service.LinkHealthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	prober := do.MustInvoke[*linkhealth.Prober](i)
	archive := do.MustInvoke[*linkhealth.ArchiveClient](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLinkHealthService(storeHandle.Store, searchService, service.LinkHealthOptions{
		Prober:  prober,
		Archive: archive,
		Backoff: backoffFromConfig(cfg),
		Workers: cfg.Health.Workers,
	}, log.Logger), nil
}
