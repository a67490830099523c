package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveNote",
		Method:      http.MethodPut,
		Path:        "/api/v1/bookmarks/{id}/note",
		Summary:     "Save note",
		Description: "Writes a new active note revision for the bookmark",
		Tags:        []string{"Notes"},
	}, s.handleSaveNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActiveNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}/note",
		Summary:     "Get active note",
		Tags:        []string{"Notes"},
	}, s.handleGetActiveNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNoteRevisions",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}/note/revisions",
		Summary:     "List note revisions",
		Description: "Returns every revision for the bookmark, newest first",
		Tags:        []string{"Notes"},
	}, s.handleListNoteRevisions)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/{id}/restore",
		Summary:     "Restore note revision",
		Description: "Makes an older revision the active note again",
		Tags:        []string{"Notes"},
	}, s.handleRestoreNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID         string    `json:"id" doc:"Note ID"`
	BookmarkID string    `json:"bookmark_id" doc:"Bookmark ID"`
	Content    string    `json:"content" doc:"Note HTML content"`
	PlainText  string    `json:"plain_text" doc:"Plain-text rendering"`
	IsActive   bool      `json:"is_active" doc:"Whether this is the active revision"`
	ParentID   string    `json:"parent_id,omitempty" doc:"Revision this one replaced"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

func toNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:         n.ID,
		BookmarkID: n.BookmarkID,
		Content:    n.Content,
		PlainText:  n.PlainText,
		IsActive:   n.IsActive,
		ParentID:   n.ParentID,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// NoteOutput wraps a single note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// SaveNoteRequest is the request body for saving a note.
type SaveNoteRequest struct {
	Content string `json:"content" validate:"required" doc:"Note HTML content"`
}

// SaveNoteInput wraps the save note request for Huma.
type SaveNoteInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Bookmark ID"`
	Body    SaveNoteRequest
}

// NoteRevisionsOutput wraps the revision list response for Huma.
type NoteRevisionsOutput struct {
	Body struct {
		Revisions []NoteResponse `json:"revisions" doc:"Note revisions, newest first"`
	}
}

// RestoreNoteInput contains parameters for restoring a note revision.
type RestoreNoteInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner user ID"`
	ID      string `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *Server) handleSaveNote(ctx context.Context, input *SaveNoteInput) (*NoteOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.SaveNote(ctx, ownerID, input.ID, input.Body.Content)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: toNoteResponse(note)}, nil
}

func (s *Server) handleGetActiveNote(ctx context.Context, input *GetBookmarkInput) (*NoteOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.GetActiveNote(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: toNoteResponse(note)}, nil
}

func (s *Server) handleListNoteRevisions(ctx context.Context, input *GetBookmarkInput) (*NoteRevisionsOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	revisions, err := s.services.Note.ListRevisions(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}

	out := &NoteRevisionsOutput{}
	out.Body.Revisions = make([]NoteResponse, len(revisions))
	for i, n := range revisions {
		out.Body.Revisions[i] = toNoteResponse(n)
	}
	return out, nil
}

func (s *Server) handleRestoreNote(ctx context.Context, input *RestoreNoteInput) (*NoteOutput, error) {
	ownerID, err := s.requireOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Restore(ctx, ownerID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: toNoteResponse(note)}, nil
}
