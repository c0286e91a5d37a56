package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/audit"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
)

// AdminHandler exposes maintenance jobs over HTTP.
type AdminHandler struct {
	repairService services.IndustryRepairService
	auditor       *audit.SecurityAuditor
	logger        *zap.Logger
}

// NewAdminHandler creates a new admin handler. auditor may be nil.
func NewAdminHandler(
	repairService services.IndustryRepairService,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		repairService: repairService,
		auditor:       auditor,
		logger:        logger,
	}
}

// RegisterRoutes registers the admin handler's routes on the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, scope Middleware) {
	mux.HandleFunc("POST /api/admin/repair-industries", scope(h.RepairIndustries))
}

// RepairIndustries handles POST /api/admin/repair-industries?dry_run=true|false
// dry_run defaults to true so an accidental call reports without writing.
func (h *AdminHandler) RepairIndustries(w http.ResponseWriter, r *http.Request) {
	dryRun := parseBool(r, "dry_run", true)

	report, err := h.repairService.Run(r.Context(), dryRun)
	if err != nil {
		writeServiceError(w, h.logger, err, "repair", "repair industries")
		return
	}

	if !dryRun && h.auditor != nil {
		var rows int64
		failed := 0
		for _, t := range report.Targets {
			rows += t.RowsFixed
			failed += t.Failed
		}
		h.auditor.LogBatchMutation(r.Context(), r.URL.Path, map[string]any{
			"job":          "repair_industries",
			"rows_updated": rows,
			"failed":       failed,
		}, clientIP(r))
	}

	writeResponse(w, h.logger, http.StatusOK, report)
}
