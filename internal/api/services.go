package api

import (
	"github.com/bookmeup/bookmeup-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Bookmark   *service.BookmarkService
	Tag        *service.TagService
	Collection *service.CollectionService
	Note       *service.NoteService
	Activity   *service.ActivityService
	Search     *service.SearchService
	Dedup      *service.DedupService
	Merge      *service.MergeService
	LinkHealth *service.LinkHealthService
}
