package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/logging"
	"github.com/ekaya-inc/prospect-crm/pkg/metrics"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
)

const (
	migrationJob = "migrate_prospects"

	// DefaultMigrationBatchSize is the number of prospects read per query.
	DefaultMigrationBatchSize = 200
)

// MigrationOptions tunes a migration run.
type MigrationOptions struct {
	BatchSize int // prospects fetched per query; DefaultMigrationBatchSize when <= 0
	Limit     int // stop after this many processed prospects; 0 means no limit
	DryRun    bool
}

// MigrationFailure records a prospect whose migration was rolled back.
type MigrationFailure struct {
	ProspectID int64  `json:"prospect_id"`
	Error      string `json:"error"`
}

// MigrationSummary is the outcome of a migration run.
type MigrationSummary struct {
	RunID     uuid.UUID          `json:"run_id"`
	DryRun    bool               `json:"dry_run"`
	Processed int                `json:"processed"`
	Migrated  int                `json:"migrated"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Failures  []MigrationFailure `json:"failures"`
	Duration  string             `json:"duration"`
}

// ProspectMigrationService moves legacy prospects into contacts, companies
// and experiences.
type ProspectMigrationService interface {
	// Run migrates every prospect without a migration_mapping row, in id
	// order, one transaction per prospect. A failing prospect is rolled back,
	// recorded, and the run continues.
	Run(ctx context.Context, opts MigrationOptions) (*MigrationSummary, error)
}

type prospectMigrationService struct {
	prospectRepo   repositories.ProspectRepository
	contactRepo    repositories.ContactRepository
	companyRepo    repositories.CompanyRepository
	experienceRepo repositories.ExperienceRepository
	noteRepo       repositories.NoteRepository
	mappingRepo    repositories.MigrationMappingRepository
	tx             TxFunc
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewProspectMigrationService creates a new migration service. tx and m may be nil.
func NewProspectMigrationService(
	prospectRepo repositories.ProspectRepository,
	contactRepo repositories.ContactRepository,
	companyRepo repositories.CompanyRepository,
	experienceRepo repositories.ExperienceRepository,
	noteRepo repositories.NoteRepository,
	mappingRepo repositories.MigrationMappingRepository,
	tx TxFunc,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProspectMigrationService {
	return &prospectMigrationService{
		prospectRepo:   prospectRepo,
		contactRepo:    contactRepo,
		companyRepo:    companyRepo,
		experienceRepo: experienceRepo,
		noteRepo:       noteRepo,
		mappingRepo:    mappingRepo,
		tx:             txOrDefault(tx),
		metrics:        m,
		logger:         logger.Named("prospect-migration"),
	}
}

var _ ProspectMigrationService = (*prospectMigrationService)(nil)

func (s *prospectMigrationService) Run(ctx context.Context, opts MigrationOptions) (*MigrationSummary, error) {
	start := time.Now()
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultMigrationBatchSize
	}

	summary := &MigrationSummary{
		RunID:    uuid.New(),
		DryRun:   opts.DryRun,
		Failures: make([]MigrationFailure, 0),
	}

	s.logger.Info("Starting prospect migration",
		zap.String("run_id", summary.RunID.String()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("batch_size", batchSize))

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		batch, err := s.prospectRepo.ListUnmigrated(ctx, afterID, batchSize)
		if err != nil {
			return summary, err
		}
		if len(batch) == 0 {
			break
		}

		for _, p := range batch {
			if opts.Limit > 0 && summary.Processed >= opts.Limit {
				summary.Duration = time.Since(start).String()
				return summary, nil
			}
			afterID = p.ID
			summary.Processed++
			s.migrateOne(ctx, p, summary)
		}
	}

	summary.Duration = time.Since(start).String()
	s.logger.Info("Prospect migration finished",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("processed", summary.Processed),
		zap.Int("migrated", summary.Migrated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *prospectMigrationService) migrateOne(ctx context.Context, p *models.Prospect, summary *MigrationSummary) {
	if strings.TrimSpace(p.Name) == "" {
		summary.Skipped++
		s.metrics.RecordBatchRecord(migrationJob, "skipped")
		s.logger.Warn("Skipping prospect without name", zap.Int64("prospect_id", p.ID))
		return
	}

	if summary.DryRun {
		summary.Migrated++
		return
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		return s.migrate(ctx, p, summary.RunID)
	})
	if err != nil {
		msg := logging.SanitizeError(err)
		summary.Failed++
		summary.Failures = append(summary.Failures, MigrationFailure{ProspectID: p.ID, Error: msg})
		s.metrics.RecordBatchRecord(migrationJob, "failed")
		s.logger.Error("Failed to migrate prospect",
			zap.Int64("prospect_id", p.ID),
			zap.String("error", msg))
		return
	}

	summary.Migrated++
	s.metrics.RecordBatchRecord(migrationJob, "migrated")
}

// migrate writes the company, contact, current experience, note and mapping
// for one prospect. Must run inside a transaction.
func (s *prospectMigrationService) migrate(ctx context.Context, p *models.Prospect, runID uuid.UUID) error {
	companyName := trimmed(p.Company)

	var companyID *int64
	if companyName != nil {
		id, err := s.companyRepo.Upsert(ctx, &models.Company{
			Name:        *companyName,
			Industry:    trimmed(p.Sector),
			SubIndustry: trimmed(p.SubSector),
		})
		if err != nil {
			return fmt.Errorf("company: %w", err)
		}
		companyID = &id
	}

	contact := &models.Contact{
		FullName:           strings.TrimSpace(p.Name),
		Location:           trimmed(p.City),
		Country:            trimmed(p.Country),
		CompanyName:        companyName,
		CompanyIndustry:    trimmed(p.Sector),
		CompanySubIndustry: trimmed(p.SubSector),
		Title:              trimmed(p.Position),
		LinkedInURL:        trimmed(p.LinkedInURL),
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return fmt.Errorf("contact: %w", err)
	}

	if companyID != nil {
		exp := &models.Experience{
			ContactID: contact.ID,
			CompanyID: companyID,
			Title:     trimmed(p.Position),
			IsCurrent: true,
		}
		if err := s.experienceRepo.Create(ctx, exp); err != nil {
			return fmt.Errorf("experience: %w", err)
		}
	}

	if content := legacyNote(p); content != "" {
		if err := s.noteRepo.Create(ctx, &models.Note{ContactID: contact.ID, Content: content}); err != nil {
			return fmt.Errorf("note: %w", err)
		}
	}

	mapping := &models.MigrationMapping{
		ProspectID: p.ID,
		ContactID:  contact.ID,
		CompanyID:  companyID,
		RunID:      runID,
	}
	if err := s.mappingRepo.Create(ctx, mapping); err != nil {
		return fmt.Errorf("mapping: %w", err)
	}
	return nil
}

// legacyNote carries the free-text notes and the contact details the new
// schema has no columns for.
func legacyNote(p *models.Prospect) string {
	var parts []string
	if n := trimmed(p.Notes); n != nil {
		parts = append(parts, *n)
	}
	if e := trimmed(p.Email); e != nil {
		parts = append(parts, "Email: "+*e)
	}
	if ph := trimmed(p.Phone); ph != nil {
		parts = append(parts, "Phone: "+*ph)
	}
	return strings.Join(parts, "\n")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
