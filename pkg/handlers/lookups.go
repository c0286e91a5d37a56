package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// TaxonomyResponse for GET /api/taxonomy
type TaxonomyResponse struct {
	Industries map[string][]string `json:"industries"`
}

// LookupHandler serves reference data and dashboard statistics.
type LookupHandler struct {
	lookupService services.LookupService
	logger        *zap.Logger
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(lookupService services.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{lookupService: lookupService, logger: logger}
}

// RegisterRoutes registers the lookup handler's routes on the given mux.
// The taxonomy is served from memory and needs no database scope.
func (h *LookupHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("GET /api/lookups", scope(h.Lookups))
	mux.HandleFunc("GET /api/stats", scope(h.Stats))
	mux.HandleFunc("GET /api/taxonomy", h.Taxonomy)
}

// Lookups handles GET /api/lookups
func (h *LookupHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	lookups, err := h.lookupService.Lookups(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "lookup", "load lookups")
		return
	}
	writeResponse(w, h.logger, http.StatusOK, lookups)
}

// Taxonomy handles GET /api/taxonomy
func (h *LookupHandler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.logger, http.StatusOK, TaxonomyResponse{
		Industries: h.lookupService.Taxonomy().Mapping(),
	})
}

// Stats handles GET /api/stats
func (h *LookupHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.lookupService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "stats", "load stats")
		return
	}
	writeResponse(w, h.logger, http.StatusOK, stats)
}
