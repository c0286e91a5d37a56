package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
	"github.com/ekaya-inc/prospect-crm/pkg/textmatch"
)

// CompanyService provides company listing, detail and autocomplete.
type CompanyService interface {
	List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, pagination.Meta, error)

	// Get returns the company with the contacts currently working there.
	// A non-empty term keeps only the contacts whose name or title matches it.
	Get(ctx context.Context, id int64, term string) (*models.CompanyAggregate, error)

	// Suggestions returns distinct values of field containing term.
	// Terms shorter than models.MinSuggestionQueryLength runes yield an empty list.
	Suggestions(ctx context.Context, field, term string) ([]string, error)
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	contactRepo repositories.ContactRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	contactRepo repositories.ContactRepository,
	logger *zap.Logger,
) CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		contactRepo: contactRepo,
		logger:      logger.Named("company-service"),
	}
}

var _ CompanyService = (*companyService)(nil)

func (s *companyService) List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, pagination.Meta, error) {
	companies, total, err := s.companyRepo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return companies, page.Meta(total), nil
}

func (s *companyService) Get(ctx context.Context, id int64, term string) (*models.CompanyAggregate, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contactRepo.ListByCompanyName(ctx, company.Name)
	if err != nil {
		return nil, err
	}

	count := len(contacts)
	if strings.TrimSpace(term) != "" {
		contacts, count = textmatch.Filter(term, contacts, func(c *models.Contact) []*string {
			return []*string{&c.FullName, c.Title}
		})
	}

	return &models.CompanyAggregate{
		Company:      *company,
		ContactCount: count,
		Contacts:     contacts,
	}, nil
}

func (s *companyService) Suggestions(ctx context.Context, field, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < models.MinSuggestionQueryLength {
		return []string{}, nil
	}
	return s.companyRepo.Suggestions(ctx, models.NormalizeSuggestionField(field), term)
}
