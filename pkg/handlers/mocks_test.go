package handlers

import (
	"context"
	"net/http"

	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// noScope stands in for the request-scope middleware.
func noScope(next http.HandlerFunc) http.HandlerFunc { return next }

func strPtr(s string) *string { return &s }

type mockContactService struct {
	contacts   []*models.Contact
	total      int
	contact    *models.Contact
	err        error
	lastFilter models.ContactFilter
	lastPage   pagination.Params
	lastUpdate *models.ContactUpdate
}

func (m *mockContactService) List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, pagination.Meta, error) {
	m.lastFilter = filter
	m.lastPage = page
	if m.err != nil {
		return nil, pagination.Meta{}, m.err
	}
	return m.contacts, page.Meta(m.total), nil
}

func (m *mockContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.contact, nil
}

func (m *mockContactService) Update(ctx context.Context, id int64, update *models.ContactUpdate) (*models.Contact, error) {
	m.lastUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return m.contact, nil
}

type mockCompanyService struct {
	companies   []*models.Company
	aggregate   *models.CompanyAggregate
	suggestions []string
	err         error
	lastField   string
	lastTerm    string
	lastGetTerm string
}

func (m *mockCompanyService) List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, pagination.Meta, error) {
	if m.err != nil {
		return nil, pagination.Meta{}, m.err
	}
	return m.companies, page.Meta(len(m.companies)), nil
}

func (m *mockCompanyService) Get(ctx context.Context, id int64, term string) (*models.CompanyAggregate, error) {
	m.lastGetTerm = term
	if m.err != nil {
		return nil, m.err
	}
	return m.aggregate, nil
}

func (m *mockCompanyService) Suggestions(ctx context.Context, field, term string) ([]string, error) {
	m.lastField, m.lastTerm = field, term
	if m.err != nil {
		return nil, m.err
	}
	return m.suggestions, nil
}

type mockProspectService struct {
	prospect *models.Prospect
	created  *models.Prospect
	bulk     []*models.Prospect
	result   *services.BulkResult
	err      error
}

func (m *mockProspectService) List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, pagination.Meta, error) {
	if m.err != nil {
		return nil, pagination.Meta{}, m.err
	}
	return []*models.Prospect{}, page.Meta(0), nil
}

func (m *mockProspectService) Get(ctx context.Context, id int64) (*models.Prospect, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prospect, nil
}

func (m *mockProspectService) Create(ctx context.Context, p *models.Prospect) error {
	m.created = p
	if m.err != nil {
		return m.err
	}
	p.ID = 1
	return nil
}

func (m *mockProspectService) Update(ctx context.Context, p *models.Prospect) error {
	m.created = p
	return m.err
}

func (m *mockProspectService) Delete(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockProspectService) BulkCreate(ctx context.Context, prospects []*models.Prospect) (*services.BulkResult, error) {
	m.bulk = prospects
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockNoteService struct {
	notes       []*models.Note
	err         error
	lastContent string
}

func (m *mockNoteService) List(ctx context.Context, contactID int64) ([]*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.notes, nil
}

func (m *mockNoteService) Create(ctx context.Context, contactID int64, content string) (*models.Note, error) {
	m.lastContent = content
	if m.err != nil {
		return nil, m.err
	}
	return &models.Note{ID: 1, ContactID: contactID, Content: content}, nil
}

func (m *mockNoteService) Delete(ctx context.Context, id int64) error {
	return m.err
}

type mockExperienceService struct {
	err       error
	lastInput services.NewExperience
}

func (m *mockExperienceService) List(ctx context.Context, contactID int64) ([]*models.Experience, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*models.Experience{}, nil
}

func (m *mockExperienceService) Create(ctx context.Context, contactID int64, input services.NewExperience) (*models.Experience, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return &models.Experience{ID: 1, ContactID: contactID, IsCurrent: input.IsCurrent}, nil
}

type mockLookupService struct {
	lookups *models.Lookups
	stats   *models.DashboardStats
	tax     *taxonomy.Taxonomy
	err     error
}

func (m *mockLookupService) Lookups(ctx context.Context) (*models.Lookups, error) {
	return m.lookups, m.err
}

func (m *mockLookupService) Taxonomy() *taxonomy.Taxonomy { return m.tax }

func (m *mockLookupService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return m.stats, m.err
}

func (m *mockLookupService) SyncSectors(ctx context.Context) error { return m.err }

type mockRepairService struct {
	report     *services.RepairReport
	err        error
	lastDryRun *bool
}

func (m *mockRepairService) Run(ctx context.Context, dryRun bool) (*services.RepairReport, error) {
	m.lastDryRun = &dryRun
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }
