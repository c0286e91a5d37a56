package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/logging"
	"github.com/ekaya-inc/prospect-crm/pkg/metrics"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// Repair targets
const (
	RepairTargetContacts  = "contacts"
	RepairTargetCompanies = "companies"
)

// repairJob is the batch job label used in metrics.
const repairJob = "repair_industries"

// IndustryStore is the slice of a repository the repair job needs.
// Both ContactRepository and CompanyRepository satisfy it.
type IndustryStore interface {
	ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error)
	RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error)
}

// AppliedResolution is a planned resolution and what applying it did.
type AppliedResolution struct {
	taxonomy.Resolution
	RowsUpdated int64  `json:"rows_updated"`
	Error       string `json:"error,omitempty"`
}

// TargetReport is the repair outcome for one table.
type TargetReport struct {
	Target     string                `json:"target"`
	Valid      int                   `json:"valid"`
	Resolved   []AppliedResolution   `json:"resolved"`
	Unresolved []taxonomy.Unresolved `json:"unresolved"`
	Failed     int                   `json:"failed"`
	RowsFixed  int64                 `json:"rows_fixed"`
}

// RepairReport summarizes one run of the industry repair job.
type RepairReport struct {
	DryRun   bool            `json:"dry_run"`
	Started  time.Time       `json:"started_at"`
	Duration string          `json:"duration"`
	Targets  []*TargetReport `json:"targets"`
}

// IndustryRepairService rewrites industries that disagree with the parent of
// their sub-industry in the canonical taxonomy.
type IndustryRepairService interface {
	// Run plans and, unless dryRun, applies the repair on every target.
	// Each resolution runs in its own transaction; a failing one is recorded
	// and the run continues.
	Run(ctx context.Context, dryRun bool) (*RepairReport, error)
}

type repairTarget struct {
	name  string
	store IndustryStore
}

type industryRepairService struct {
	taxonomy *taxonomy.Taxonomy
	targets  []repairTarget
	tx       TxFunc
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewIndustryRepairService creates the repair service over contacts and companies.
// tx and m may be nil.
func NewIndustryRepairService(
	tax *taxonomy.Taxonomy,
	contacts IndustryStore,
	companies IndustryStore,
	tx TxFunc,
	m *metrics.Metrics,
	logger *zap.Logger,
) IndustryRepairService {
	return &industryRepairService{
		taxonomy: tax,
		targets: []repairTarget{
			{name: RepairTargetContacts, store: contacts},
			{name: RepairTargetCompanies, store: companies},
		},
		tx:      txOrDefault(tx),
		metrics: m,
		logger:  logger.Named("industry-repair"),
	}
}

var _ IndustryRepairService = (*industryRepairService)(nil)

func (s *industryRepairService) Run(ctx context.Context, dryRun bool) (*RepairReport, error) {
	report := &RepairReport{
		DryRun:  dryRun,
		Started: time.Now().UTC(),
		Targets: make([]*TargetReport, 0, len(s.targets)),
	}

	for _, target := range s.targets {
		if target.store == nil {
			continue
		}
		tr, err := s.runTarget(ctx, target, dryRun)
		if err != nil {
			return nil, err
		}
		report.Targets = append(report.Targets, tr)
	}

	report.Duration = time.Since(report.Started).String()
	return report, nil
}

func (s *industryRepairService) runTarget(ctx context.Context, target repairTarget, dryRun bool) (*TargetReport, error) {
	pairs, err := target.store.ListIndustryPairs(ctx)
	if err != nil {
		return nil, err
	}

	plan := taxonomy.PlanRepair(s.taxonomy, pairs)
	tr := &TargetReport{
		Target:     target.name,
		Valid:      plan.Valid,
		Resolved:   make([]AppliedResolution, 0, len(plan.Resolved)),
		Unresolved: plan.Unresolved,
	}

	for _, u := range plan.Unresolved {
		s.metrics.RecordBatchRecord(repairJob, "unresolved")
		s.logger.Warn("Unresolved industry pair",
			zap.String("target", target.name),
			zap.String("industry", u.Industry),
			zap.String("sub_industry", u.SubIndustry),
			zap.String("reason", string(u.Reason)),
			zap.Strings("candidates", u.Candidates),
			zap.Int("rows", u.Rows))
	}

	for _, res := range plan.Resolved {
		applied := AppliedResolution{Resolution: res}
		if dryRun {
			applied.RowsUpdated = int64(res.Rows)
			tr.Resolved = append(tr.Resolved, applied)
			continue
		}

		err := s.tx(ctx, func(ctx context.Context) error {
			n, err := target.store.RewriteIndustry(ctx, res.Pair, res.NewIndustry)
			applied.RowsUpdated = n
			return err
		})
		if err != nil {
			applied.RowsUpdated = 0
			applied.Error = logging.SanitizeError(err)
			tr.Failed++
			s.metrics.RecordBatchRecord(repairJob, "failed")
			s.logger.Error("Failed to rewrite industry",
				zap.String("target", target.name),
				zap.String("industry", res.Industry),
				zap.String("sub_industry", res.SubIndustry),
				zap.String("new_industry", res.NewIndustry),
				zap.String("error", applied.Error))
		} else {
			tr.RowsFixed += applied.RowsUpdated
			s.metrics.RecordBatchRecord(repairJob, "resolved")
			s.metrics.RecordRepairedRows(target.name, applied.RowsUpdated)
			s.logger.Info("Rewrote industry",
				zap.String("target", target.name),
				zap.String("from", res.Industry),
				zap.String("to", res.NewIndustry),
				zap.String("sub_industry", res.SubIndustry),
				zap.Int64("rows", applied.RowsUpdated))
		}
		tr.Resolved = append(tr.Resolved, applied)
	}

	return tr, nil
}
