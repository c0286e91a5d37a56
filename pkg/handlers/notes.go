package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// NoteListResponse for GET /api/contacts/{id}/notes
type NoteListResponse struct {
	Notes []*models.Note `json:"notes"`
}

// CreateNoteRequest for POST /api/contacts/{id}/notes
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// NoteHandler handles free-text notes attached to contacts.
type NoteHandler struct {
	noteService services.NoteService
	logger      *zap.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteService services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{noteService: noteService, logger: logger}
}

// RegisterRoutes registers the note handler's routes on the given mux.
func (h *NoteHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("GET /api/contacts/{id}/notes", scope(h.List))
	mux.HandleFunc("POST /api/contacts/{id}/notes", scope(h.Create))
	mux.HandleFunc("DELETE /api/notes/{id}", scope(h.Delete))
}

// List handles GET /api/contacts/{id}/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	notes, err := h.noteService.List(r.Context(), contactID)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "list notes")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, NoteListResponse{Notes: notes})
}

// Create handles POST /api/contacts/{id}/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	note, err := h.noteService.Create(r.Context(), contactID, req.Content)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "create note")
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, note)
}

// Delete handles DELETE /api/notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.noteService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "note", "delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
