package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/jsonutil"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// ProspectListResponse for GET /api/prospects
type ProspectListResponse struct {
	Prospects  []*models.Prospect `json:"prospects"`
	Pagination pagination.Meta    `json:"pagination"`
}

// ProspectRequest for POST /api/prospects, PUT /api/prospects/{id} and each
// element of POST /api/prospects/bulk. Fields accept strings, numbers or
// booleans, since spreadsheet exports emit phone numbers as numbers.
type ProspectRequest struct {
	Name        jsonutil.FlexibleString `json:"name"`
	Email       jsonutil.FlexibleString `json:"email"`
	Phone       jsonutil.FlexibleString `json:"phone"`
	Company     jsonutil.FlexibleString `json:"company"`
	Position    jsonutil.FlexibleString `json:"position"`
	Sector      jsonutil.FlexibleString `json:"sector"`
	SubSector   jsonutil.FlexibleString `json:"sub_sector"`
	Country     jsonutil.FlexibleString `json:"country"`
	City        jsonutil.FlexibleString `json:"city"`
	LinkedInURL jsonutil.FlexibleString `json:"linkedin_url"`
	Notes       jsonutil.FlexibleString `json:"notes"`
	Status      jsonutil.FlexibleString `json:"status"`
}

func (req ProspectRequest) toModel() *models.Prospect {
	return &models.Prospect{
		Name:        req.Name.String(),
		Email:       req.Email.Ptr(),
		Phone:       req.Phone.Ptr(),
		Company:     req.Company.Ptr(),
		Position:    req.Position.Ptr(),
		Sector:      req.Sector.Ptr(),
		SubSector:   req.SubSector.Ptr(),
		Country:     req.Country.Ptr(),
		City:        req.City.Ptr(),
		LinkedInURL: req.LinkedInURL.Ptr(),
		Notes:       req.Notes.Ptr(),
		Status:      req.Status.String(),
	}
}

// ============================================================================
// Handler
// ============================================================================

// ProspectHandler handles CRUD and bulk import over legacy prospects.
type ProspectHandler struct {
	prospectService services.ProspectService
	pageDefaults    pagination.Defaults
	logger          *zap.Logger
}

// NewProspectHandler creates a new prospect handler.
func NewProspectHandler(
	prospectService services.ProspectService,
	pageDefaults pagination.Defaults,
	logger *zap.Logger,
) *ProspectHandler {
	return &ProspectHandler{
		prospectService: prospectService,
		pageDefaults:    pageDefaults,
		logger:          logger,
	}
}

// RegisterRoutes registers the prospect handler's routes on the given mux.
func (h *ProspectHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	base := "/api/prospects"

	mux.HandleFunc("GET "+base, scope(h.List))
	mux.HandleFunc("POST "+base, scope(h.Create))
	mux.HandleFunc("POST "+base+"/bulk", scope(h.Bulk))
	mux.HandleFunc("GET "+base+"/{id}", scope(h.Get))
	mux.HandleFunc("PUT "+base+"/{id}", scope(h.Update))
	mux.HandleFunc("DELETE "+base+"/{id}", scope(h.Delete))
}

// List handles GET /api/prospects
func (h *ProspectHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ProspectFilter{
		Query:   queryValue(r, "q"),
		Sector:  queryValue(r, "sector"),
		Country: queryValue(r, "country"),
		Status:  queryValue(r, "status"),
	}
	page := pagination.FromQuery(r.URL.Query(), h.pageDefaults)

	prospects, meta, err := h.prospectService.List(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, h.logger, err, "prospect", "list prospects")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, ProspectListResponse{Prospects: prospects, Pagination: meta})
}

// Get handles GET /api/prospects/{id}
func (h *ProspectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	prospect, err := h.prospectService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "prospect", "get prospect")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, prospect)
}

// Create handles POST /api/prospects
func (h *ProspectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	prospect := req.toModel()
	if err := h.prospectService.Create(r.Context(), prospect); err != nil {
		writeServiceError(w, h.logger, err, "prospect", "create prospect")
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, prospect)
}

// Update handles PUT /api/prospects/{id}
func (h *ProspectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req ProspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	prospect := req.toModel()
	prospect.ID = id
	if err := h.prospectService.Update(r.Context(), prospect); err != nil {
		writeServiceError(w, h.logger, err, "prospect", "update prospect")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, prospect)
}

// Delete handles DELETE /api/prospects/{id}
func (h *ProspectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.prospectService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "prospect", "delete prospect")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Bulk handles POST /api/prospects/bulk
// The body is a JSON array. Records without a name are skipped; the rest are
// inserted in one transaction.
func (h *ProspectHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var reqs []ProspectRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Request body must be a JSON array of prospects")
		return
	}
	if len(reqs) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "validation_error", "at least one prospect is required")
		return
	}

	prospects := make([]*models.Prospect, 0, len(reqs))
	for _, req := range reqs {
		prospects = append(prospects, req.toModel())
	}

	result, err := h.prospectService.BulkCreate(r.Context(), prospects)
	if err != nil {
		writeServiceError(w, h.logger, err, "prospect", "import prospects")
		return
	}

	writeResponse(w, h.logger, http.StatusCreated, result)
}
