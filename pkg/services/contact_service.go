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

// ContactService provides the contact listing and editing operations.
type ContactService interface {
	// List returns one page of contacts matching filter plus its metadata.
	List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, pagination.Meta, error)

	// Get returns a contact by id.
	Get(ctx context.Context, id int64) (*models.Contact, error)

	// Update applies a partial update and returns the stored contact.
	Update(ctx context.Context, id int64, update *models.ContactUpdate) (*models.Contact, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo repositories.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		logger:      logger.Named("contact-service"),
	}
}

var _ ContactService = (*contactService)(nil)

func (s *contactService) List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, pagination.Meta, error) {
	contacts, total, err := s.contactRepo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return contacts, page.Meta(total), nil
}

func (s *contactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

func (s *contactService) Update(ctx context.Context, id int64, update *models.ContactUpdate) (*models.Contact, error) {
	if update == nil || update.IsEmpty() {
		return nil, apperrors.NewValidationError("body", "at least one field is required")
	}
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("full_name", "full_name cannot be empty")
		}
		update.FullName = &name
	}
	if update.YearsExperience != nil && *update.YearsExperience < 0 {
		return nil, apperrors.NewValidationError("years_experience", "years_experience cannot be negative")
	}
	if update.LeadScore != nil && (*update.LeadScore < 0 || *update.LeadScore > 100) {
		return nil, apperrors.NewValidationError("lead_score", "lead_score must be between 0 and 100")
	}

	contact, err := s.contactRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated contact", zap.Int64("contact_id", id))
	return contact, nil
}
