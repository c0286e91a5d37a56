package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// LookupService serves reference data, the canonical taxonomy and dashboard stats.
type LookupService interface {
	Lookups(ctx context.Context) (*models.Lookups, error)
	Taxonomy() *taxonomy.Taxonomy
	Stats(ctx context.Context) (*models.DashboardStats, error)

	// SyncSectors makes the secteurs lookup table list every taxonomy entry.
	SyncSectors(ctx context.Context) error
}

type lookupService struct {
	lookupRepo repositories.LookupRepository
	statsRepo  repositories.StatsRepository
	taxonomy   *taxonomy.Taxonomy
	logger     *zap.Logger
}

// NewLookupService creates a new lookup service.
func NewLookupService(
	lookupRepo repositories.LookupRepository,
	statsRepo repositories.StatsRepository,
	tax *taxonomy.Taxonomy,
	logger *zap.Logger,
) LookupService {
	return &lookupService{
		lookupRepo: lookupRepo,
		statsRepo:  statsRepo,
		taxonomy:   tax,
		logger:     logger.Named("lookup-service"),
	}
}

var _ LookupService = (*lookupService)(nil)

func (s *lookupService) Lookups(ctx context.Context) (*models.Lookups, error) {
	return s.lookupRepo.GetAll(ctx)
}

func (s *lookupService) Taxonomy() *taxonomy.Taxonomy {
	return s.taxonomy
}

func (s *lookupService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.statsRepo.Dashboard(ctx)
}

func (s *lookupService) SyncSectors(ctx context.Context) error {
	added, err := s.lookupRepo.SyncSectors(ctx, s.taxonomy)
	if err != nil {
		return err
	}
	if added > 0 {
		s.logger.Info("Synchronized sector lookup with taxonomy", zap.Int64("added", added))
	}
	return nil
}
