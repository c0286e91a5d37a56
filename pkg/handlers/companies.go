package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/audit"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// CompanyListResponse for GET /api/companies
type CompanyListResponse struct {
	Companies  []*models.Company `json:"companies"`
	Pagination pagination.Meta   `json:"pagination"`
}

// SuggestionsResponse for GET /api/companies/suggestions
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// CompanyHandler handles company listing, detail and typeahead suggestions.
type CompanyHandler struct {
	companyService services.CompanyService
	auditor        *audit.SecurityAuditor
	pageDefaults   pagination.Defaults
	logger         *zap.Logger
}

// NewCompanyHandler creates a new company handler. auditor may be nil.
func NewCompanyHandler(
	companyService services.CompanyService,
	auditor *audit.SecurityAuditor,
	pageDefaults pagination.Defaults,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		auditor:        auditor,
		pageDefaults:   pageDefaults,
		logger:         logger,
	}
}

// RegisterRoutes registers the company handler's routes on the given mux.
func (h *CompanyHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("GET /api/companies", scope(h.List))
	mux.HandleFunc("GET /api/companies/suggestions", scope(h.Suggestions))
	mux.HandleFunc("GET /api/companies/{id}", scope(h.Get))
}

// List handles GET /api/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.CompanyFilter{
		Query:    queryValue(r, "q"),
		Industry: queryValue(r, "industry"),
		Sort:     queryValue(r, "sort"),
	}
	page := pagination.FromQuery(r.URL.Query(), h.pageDefaults)

	if h.auditor != nil {
		h.auditor.ScreenParameters(r.Context(), r.URL.Path, map[string]string{
			"q":        filter.Query,
			"industry": filter.Industry,
		}, clientIP(r))
	}

	companies, meta, err := h.companyService.List(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, h.logger, err, "company", "list companies")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, CompanyListResponse{Companies: companies, Pagination: meta})
}

// Suggestions handles GET /api/companies/suggestions
func (h *CompanyHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	term := queryValue(r, "q")
	field := queryValue(r, "field")

	suggestions, err := h.companyService.Suggestions(r.Context(), field, term)
	if err != nil {
		writeServiceError(w, h.logger, err, "company", "load suggestions")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// Get handles GET /api/companies/{id}. Optional q narrows the listed contacts.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.logger)
	if !ok {
		return
	}

	term := queryValue(r, "q")
	if h.auditor != nil && term != "" {
		h.auditor.ScreenParameters(r.Context(), r.URL.Path, map[string]string{"q": term}, clientIP(r))
	}

	company, err := h.companyService.Get(r.Context(), id, term)
	if err != nil {
		writeServiceError(w, h.logger, err, "company", "get company")
		return
	}

	writeResponse(w, h.logger, http.StatusOK, company)
}
