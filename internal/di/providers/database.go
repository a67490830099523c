package providers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/bookmeup/bookmeup-server/internal/config"
	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/logger"
	"github.com/bookmeup/bookmeup-server/internal/search"
	"github.com/bookmeup/bookmeup-server/internal/service"
	"github.com/bookmeup/bookmeup-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.BasePath, 0o750); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Storage.BasePath, "bookmeup.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(cfg.Storage.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Search index opened")

	return &SearchIndexHandle{Index: index}, nil
}

// Bootstrap contains the startup provisioning result.
type Bootstrap struct {
	// Owner is the default user, nil when provisioning is disabled.
	Owner *domain.User
}

// ProvideBootstrap ensures the default owner exists for single-user
// deployments. An empty DEFAULT_OWNER disables provisioning.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	owner, err := service.Bootstrap(context.Background(), storeHandle.Store, cfg.App.DefaultOwner, log.Logger)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		log.Info("Default owner provisioning disabled")
		return &Bootstrap{}, nil
	}

	log.Info("Default owner ready", "user_id", owner.ID, "username", owner.Username)

	return &Bootstrap{Owner: owner}, nil
}
