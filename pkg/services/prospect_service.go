package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
)

var validProspectStatuses = map[string]bool{
	models.ProspectStatusNew:       true,
	models.ProspectStatusContacted: true,
	models.ProspectStatusQualified: true,
	models.ProspectStatusLost:      true,
}

// BulkResult is the outcome of a bulk prospect import.
type BulkResult struct {
	Count     int                `json:"count"`
	Skipped   int                `json:"skipped"`
	Prospects []*models.Prospect `json:"prospects"`
}

// ProspectService provides CRUD over legacy prospects.
type ProspectService interface {
	List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, pagination.Meta, error)
	Get(ctx context.Context, id int64) (*models.Prospect, error)
	Create(ctx context.Context, prospect *models.Prospect) error
	Update(ctx context.Context, prospect *models.Prospect) error
	Delete(ctx context.Context, id int64) error

	// BulkCreate inserts every valid record in one transaction. Records
	// without a name (or otherwise invalid) are skipped, not rejected.
	BulkCreate(ctx context.Context, prospects []*models.Prospect) (*BulkResult, error)
}

type prospectService struct {
	prospectRepo repositories.ProspectRepository
	tx           TxFunc
	logger       *zap.Logger
}

// NewProspectService creates a new prospect service. tx may be nil.
func NewProspectService(prospectRepo repositories.ProspectRepository, tx TxFunc, logger *zap.Logger) ProspectService {
	return &prospectService{
		prospectRepo: prospectRepo,
		tx:           txOrDefault(tx),
		logger:       logger.Named("prospect-service"),
	}
}

var _ ProspectService = (*prospectService)(nil)

// normalizeProspect trims the name and validates status, defaulting it to "new".
func normalizeProspect(p *models.Prospect) error {
	if p == nil {
		return apperrors.NewValidationError("name", "name is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	p.Status = strings.TrimSpace(strings.ToLower(p.Status))
	if p.Status == "" {
		p.Status = models.ProspectStatusNew
	}
	if !validProspectStatuses[p.Status] {
		return apperrors.NewValidationError("status", "status must be one of new, contacted, qualified, lost")
	}
	return nil
}

func (s *prospectService) List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, pagination.Meta, error) {
	prospects, total, err := s.prospectRepo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return prospects, page.Meta(total), nil
}

func (s *prospectService) Get(ctx context.Context, id int64) (*models.Prospect, error) {
	return s.prospectRepo.GetByID(ctx, id)
}

func (s *prospectService) Create(ctx context.Context, p *models.Prospect) error {
	if err := normalizeProspect(p); err != nil {
		return err
	}
	if err := s.prospectRepo.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info("Created prospect", zap.Int64("prospect_id", p.ID))
	return nil
}

func (s *prospectService) Update(ctx context.Context, p *models.Prospect) error {
	if err := normalizeProspect(p); err != nil {
		return err
	}
	return s.prospectRepo.Update(ctx, p)
}

func (s *prospectService) Delete(ctx context.Context, id int64) error {
	if err := s.prospectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted prospect", zap.Int64("prospect_id", id))
	return nil
}

func (s *prospectService) BulkCreate(ctx context.Context, prospects []*models.Prospect) (*BulkResult, error) {
	result := &BulkResult{Prospects: make([]*models.Prospect, 0, len(prospects))}

	valid := make([]*models.Prospect, 0, len(prospects))
	for _, p := range prospects {
		if err := normalizeProspect(p); err != nil {
			result.Skipped++
			continue
		}
		valid = append(valid, p)
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		for _, p := range valid {
			if err := s.prospectRepo.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Prospects = append(result.Prospects, valid...)
	result.Count = len(valid)

	s.logger.Info("Bulk imported prospects",
		zap.Int("created", result.Count),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
