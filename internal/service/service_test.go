package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
	"github.com/bookmeup/bookmeup-server/internal/store/sqlite"
	"github.com/bookmeup/bookmeup-server/internal/urlnorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        id.MustGenerate("usr"),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func seedBookmark(t *testing.T, st store.Store, ownerID, url, title string) *domain.Bookmark {
	t.Helper()
	b := &domain.Bookmark{
		ID:      id.MustGenerate("bm"),
		OwnerID: ownerID,
		URL:     url,
		Title:   title,
		Domain:  urlnorm.Domain(url),
	}
	b.InitTimestamps()
	require.NoError(t, st.CreateBookmark(context.Background(), b))
	return b
}
