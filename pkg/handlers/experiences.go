package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// ExperienceListResponse for GET /api/contacts/{id}/experiences
type ExperienceListResponse struct {
	Experiences []*models.Experience `json:"experiences"`
}

// CreateExperienceRequest for POST /api/contacts/{id}/experiences
type CreateExperienceRequest struct {
	CompanyID   *int64  `json:"company_id,omitempty"`
	CompanyName string  `json:"company_name,omitempty"`
	Title       *string `json:"title,omitempty"`
	JobCategory *string `json:"job_category,omitempty"`
	IsCurrent   bool    `json:"is_current"`
	Position    *int    `json:"position,omitempty"`
}

// ExperienceHandler handles the work history of a contact.
type ExperienceHandler struct {
	experienceService services.ExperienceService
	logger            *zap.Logger
}

// NewExperienceHandler creates a new experience handler.
func NewExperienceHandler(experienceService services.ExperienceService, logger *zap.Logger) *ExperienceHandler {
	return &ExperienceHandler{experienceService: experienceService, logger: logger}
}

// RegisterRoutes registers the experience handler's routes on the given mux.
func (h *ExperienceHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("GET /api/contacts/{id}/experiences", scope(h.List))
	mux.HandleFunc("POST /api/contacts/{id}/experiences", scope(h.Create))
}

// List handles GET /api/contacts/{id}/experiences
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	experiences, err := h.experienceService.List(r.Context(), contactID)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "list experiences")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, ExperienceListResponse{Experiences: experiences})
}

// Create handles POST /api/contacts/{id}/experiences
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req CreateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	exp, err := h.experienceService.Create(r.Context(), contactID, services.NewExperience{
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
		Title:       req.Title,
		JobCategory: req.JobCategory,
		IsCurrent:   req.IsCurrent,
		Position:    req.Position,
	})
	if errors.Is(err, apperrors.ErrConflict) {
		writeError(w, h.logger, http.StatusConflict, "experience_conflict",
			"Contact already has a current experience")
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "create experience")
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, exp)
}
