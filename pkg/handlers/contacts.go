package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/audit"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// ContactListResponse for GET /api/contacts
type ContactListResponse struct {
	Contacts   []*models.Contact `json:"contacts"`
	Pagination pagination.Meta   `json:"pagination"`
}

// ContactHandler handles contact listing, detail and editing.
type ContactHandler struct {
	contactService services.ContactService
	auditor        *audit.SecurityAuditor
	pageDefaults   pagination.Defaults
	logger         *zap.Logger
}

// NewContactHandler creates a new contact handler. auditor may be nil.
func NewContactHandler(
	contactService services.ContactService,
	auditor *audit.SecurityAuditor,
	pageDefaults pagination.Defaults,
	logger *zap.Logger,
) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		auditor:        auditor,
		pageDefaults:   pageDefaults,
		logger:         logger,
	}
}

// RegisterRoutes registers the contact handler's routes on the given mux.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("GET /api/contacts", scope(h.List))
	mux.HandleFunc("GET /api/contacts/{id}", scope(h.Get))
	mux.HandleFunc("PUT /api/contacts/{id}", scope(h.Update))
}

// List handles GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	years, ok := parseOptionalInt(w, r, "years_exp", h.logger)
	if !ok {
		return
	}

	filter := models.ContactFilter{
		Query:           queryValue(r, "q"),
		Title:           queryValue(r, "title"),
		Country:         queryValue(r, "country"),
		YearsExperience: years,
		CompanyName:     queryValue(r, "company_name"),
		Industry:        queryValue(r, "industry"),
		SubIndustry:     queryValue(r, "subindustry"),
		Sort:            queryValue(r, "sort"),
	}
	page := pagination.FromQuery(r.URL.Query(), h.pageDefaults)

	if h.auditor != nil {
		h.auditor.ScreenParameters(r.Context(), r.URL.Path, filter.TextValues(), clientIP(r))
	}

	contacts, meta, err := h.contactService.List(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "list contacts")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, ContactListResponse{Contacts: contacts, Pagination: meta})
}

// Get handles GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "get contact")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, contact)
}

// Update handles PUT /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req models.ContactUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "contact", "update contact")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, contact)
}
