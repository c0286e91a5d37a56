package services

import (
	"context"
	"sort"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// ============================================================================
// Mock Implementations for Service Tests
// ============================================================================

// passthroughTx runs fn without a database transaction.
func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type mockContactRepo struct {
	contacts  map[int64]*models.Contact
	nextID    int64
	updates   []*models.ContactUpdate
	listTotal int
	createErr func(c *models.Contact) error
	updateErr error
	listErr   error
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{contacts: make(map[int64]*models.Contact)}
}

func (m *mockContactRepo) add(c *models.Contact) *models.Contact {
	m.nextID++
	c.ID = m.nextID
	m.contacts[c.ID] = c
	return c
}

func (m *mockContactRepo) List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := make([]*models.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c)
	}
	return out, m.listTotal, nil
}

func (m *mockContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (m *mockContactRepo) Create(ctx context.Context, c *models.Contact) error {
	if m.createErr != nil {
		if err := m.createErr(c); err != nil {
			return err
		}
	}
	m.add(c)
	return nil
}

func (m *mockContactRepo) Update(ctx context.Context, id int64, u *models.ContactUpdate) (*models.Contact, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	c, ok := m.contacts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	m.updates = append(m.updates, u)
	if u.FullName != nil {
		c.FullName = *u.FullName
	}
	if u.Title != nil {
		c.Title = u.Title
	}
	if u.CompanyName != nil {
		c.CompanyName = u.CompanyName
	}
	if u.CompanyIndustry != nil {
		c.CompanyIndustry = emptyToNil(*u.CompanyIndustry)
	}
	if u.CompanySubIndustry != nil {
		c.CompanySubIndustry = emptyToNil(*u.CompanySubIndustry)
	}
	if u.LeadScore != nil {
		c.LeadScore = u.LeadScore
	}
	return c, nil
}

func (m *mockContactRepo) ListByCompanyName(ctx context.Context, name string) ([]*models.Contact, error) {
	out := make([]*models.Contact, 0)
	for _, c := range m.contacts {
		if c.CompanyName != nil && *c.CompanyName == name {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockContactRepo) ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error) {
	return nil, nil
}

func (m *mockContactRepo) RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error) {
	return 0, nil
}

type mockCompanyRepo struct {
	companies      map[int64]*models.Company
	nextID         int64
	suggestCalls   int
	suggestions    []string
	suggestedField string
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[int64]*models.Company)}
}

func (m *mockCompanyRepo) List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, int, error) {
	return nil, 0, nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (m *mockCompanyRepo) Upsert(ctx context.Context, c *models.Company) (int64, error) {
	for _, existing := range m.companies {
		if existing.Name == c.Name {
			return existing.ID, nil
		}
	}
	m.nextID++
	stored := *c
	stored.ID = m.nextID
	m.companies[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockCompanyRepo) Suggestions(ctx context.Context, field, term string) ([]string, error) {
	m.suggestCalls++
	m.suggestedField = field
	return m.suggestions, nil
}

func (m *mockCompanyRepo) ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error) {
	return nil, nil
}

func (m *mockCompanyRepo) RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error) {
	return 0, nil
}

type mockExperienceRepo struct {
	experiences []*models.Experience
	clearedFor  []int64
	nextID      int64
	createErr   error
}

func (m *mockExperienceRepo) ListByContact(ctx context.Context, contactID int64) ([]*models.Experience, error) {
	out := make([]*models.Experience, 0)
	for _, e := range m.experiences {
		if e.ContactID == contactID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExperienceRepo) Create(ctx context.Context, e *models.Experience) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	e.ID = m.nextID
	m.experiences = append(m.experiences, e)
	return nil
}

func (m *mockExperienceRepo) ClearCurrent(ctx context.Context, contactID int64) error {
	m.clearedFor = append(m.clearedFor, contactID)
	for _, e := range m.experiences {
		if e.ContactID == contactID {
			e.IsCurrent = false
		}
	}
	return nil
}

func (m *mockExperienceRepo) NextPosition(ctx context.Context, contactID int64) (int, error) {
	next := 0
	for _, e := range m.experiences {
		if e.ContactID == contactID && e.Position >= next {
			next = e.Position + 1
		}
	}
	return next, nil
}

type mockNoteRepo struct {
	notes  []*models.Note
	nextID int64
}

func (m *mockNoteRepo) ListByContact(ctx context.Context, contactID int64) ([]*models.Note, error) {
	out := make([]*models.Note, 0)
	for _, n := range m.notes {
		if n.ContactID == contactID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, n *models.Note) error {
	m.nextID++
	n.ID = m.nextID
	m.notes = append(m.notes, n)
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id int64) error {
	for i, n := range m.notes {
		if n.ID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type mockProspectRepo struct {
	prospects map[int64]*models.Prospect
	nextID    int64
	created   []*models.Prospect
	createErr error
	migrated  map[int64]bool
}

func newMockProspectRepo() *mockProspectRepo {
	return &mockProspectRepo{
		prospects: make(map[int64]*models.Prospect),
		migrated:  make(map[int64]bool),
	}
}

func (m *mockProspectRepo) add(p *models.Prospect) *models.Prospect {
	m.nextID++
	p.ID = m.nextID
	m.prospects[p.ID] = p
	return p
}

func (m *mockProspectRepo) List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, int, error) {
	return nil, len(m.prospects), nil
}

func (m *mockProspectRepo) GetByID(ctx context.Context, id int64) (*models.Prospect, error) {
	p, ok := m.prospects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (m *mockProspectRepo) Create(ctx context.Context, p *models.Prospect) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(p)
	m.created = append(m.created, p)
	return nil
}

func (m *mockProspectRepo) Update(ctx context.Context, p *models.Prospect) error {
	if _, ok := m.prospects[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.prospects[p.ID] = p
	return nil
}

func (m *mockProspectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.prospects[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.prospects, id)
	return nil
}

func (m *mockProspectRepo) ListUnmigrated(ctx context.Context, afterID int64, limit int) ([]*models.Prospect, error) {
	ids := make([]int64, 0, len(m.prospects))
	for id := range m.prospects {
		if id > afterID && !m.migrated[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*models.Prospect, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.prospects[id])
	}
	return out, nil
}

type mockMappingRepo struct {
	mappings []*models.MigrationMapping
	prospect *mockProspectRepo
}

func (m *mockMappingRepo) Create(ctx context.Context, mm *models.MigrationMapping) error {
	m.mappings = append(m.mappings, mm)
	if m.prospect != nil {
		m.prospect.migrated[mm.ProspectID] = true
	}
	return nil
}

func (m *mockMappingRepo) GetByProspect(ctx context.Context, prospectID int64) (*models.MigrationMapping, error) {
	for _, mm := range m.mappings {
		if mm.ProspectID == prospectID {
			return mm, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockIndustryStore serves fixed pairs and records rewrites.
type mockIndustryStore struct {
	pairs    []taxonomy.Pair
	rewrites map[string]string // sub-industry -> new industry
	failFor  map[string]error  // sub-industry -> error
	listErr  error
}

func (m *mockIndustryStore) ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pairs, nil
}

func (m *mockIndustryStore) RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error) {
	if err := m.failFor[from.SubIndustry]; err != nil {
		return 0, err
	}
	if m.rewrites == nil {
		m.rewrites = make(map[string]string)
	}
	m.rewrites[from.SubIndustry] = industry
	return int64(from.Rows), nil
}
