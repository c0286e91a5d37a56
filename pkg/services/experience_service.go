package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
)

// NewExperience is the input for ExperienceService.Create.
type NewExperience struct {
	CompanyID   *int64
	CompanyName string // upserted when CompanyID is nil
	Title       *string
	JobCategory *string
	IsCurrent   bool
	Position    *int // appended after the last experience when nil
}

// ExperienceService manages the experiences of a contact.
type ExperienceService interface {
	List(ctx context.Context, contactID int64) ([]*models.Experience, error)

	// Create adds an experience. A current experience replaces the previous
	// current one and refreshes the contact's current company and title.
	Create(ctx context.Context, contactID int64, input NewExperience) (*models.Experience, error)
}

type experienceService struct {
	experienceRepo repositories.ExperienceRepository
	contactRepo    repositories.ContactRepository
	companyRepo    repositories.CompanyRepository
	tx             TxFunc
	logger         *zap.Logger
}

// NewExperienceService creates a new experience service. tx may be nil.
func NewExperienceService(
	experienceRepo repositories.ExperienceRepository,
	contactRepo repositories.ContactRepository,
	companyRepo repositories.CompanyRepository,
	tx TxFunc,
	logger *zap.Logger,
) ExperienceService {
	return &experienceService{
		experienceRepo: experienceRepo,
		contactRepo:    contactRepo,
		companyRepo:    companyRepo,
		tx:             txOrDefault(tx),
		logger:         logger.Named("experience-service"),
	}
}

var _ ExperienceService = (*experienceService)(nil)

func (s *experienceService) List(ctx context.Context, contactID int64) ([]*models.Experience, error) {
	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return nil, err
	}
	return s.experienceRepo.ListByContact(ctx, contactID)
}

func (s *experienceService) Create(ctx context.Context, contactID int64, input NewExperience) (*models.Experience, error) {
	companyName := strings.TrimSpace(input.CompanyName)
	if input.CompanyID == nil && companyName == "" && input.Title == nil {
		return nil, apperrors.NewValidationError("company", "company or title is required")
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, apperrors.NewValidationError("position", "position cannot be negative")
	}

	exp := &models.Experience{
		ContactID:   contactID,
		CompanyID:   input.CompanyID,
		Title:       input.Title,
		JobCategory: input.JobCategory,
		IsCurrent:   input.IsCurrent,
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
			return err
		}

		var company *models.Company
		switch {
		case exp.CompanyID != nil:
			c, err := s.companyRepo.GetByID(ctx, *exp.CompanyID)
			if err != nil {
				return err
			}
			company = c
		case companyName != "":
			id, err := s.companyRepo.Upsert(ctx, &models.Company{Name: companyName})
			if err != nil {
				return err
			}
			exp.CompanyID = &id
			// the name may belong to an existing company with its own industry
			c, err := s.companyRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			company = c
		}
		if company != nil {
			exp.CompanyName = &company.Name
		}

		if input.Position != nil {
			exp.Position = *input.Position
		} else {
			next, err := s.experienceRepo.NextPosition(ctx, contactID)
			if err != nil {
				return err
			}
			exp.Position = next
		}

		if exp.IsCurrent {
			if err := s.experienceRepo.ClearCurrent(ctx, contactID); err != nil {
				return err
			}
		}
		if err := s.experienceRepo.Create(ctx, exp); err != nil {
			return err
		}

		if exp.IsCurrent {
			update := &models.ContactUpdate{Title: exp.Title}
			if company != nil {
				// empty values clear the previous employer's industry pair
				industry, subIndustry := "", ""
				if company.Industry != nil {
					industry = *company.Industry
				}
				if company.SubIndustry != nil {
					subIndustry = *company.SubIndustry
				}
				update.CompanyName = &company.Name
				update.CompanyIndustry = &industry
				update.CompanySubIndustry = &subIndustry
			}
			if !update.IsEmpty() {
				if _, err := s.contactRepo.Update(ctx, contactID, update); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created experience",
		zap.Int64("contact_id", contactID),
		zap.Int64("experience_id", exp.ID),
		zap.Bool("is_current", exp.IsCurrent))
	return exp, nil
}
