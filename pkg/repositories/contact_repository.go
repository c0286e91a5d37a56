package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/sql"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// ContactRepository provides data access for contacts.
type ContactRepository interface {
	List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, int, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, id int64, update *models.ContactUpdate) (*models.Contact, error)
	ListByCompanyName(ctx context.Context, name string) ([]*models.Contact, error)

	// Industry repair
	ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error)
	RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error)
}

type contactRepository struct{}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository() ContactRepository {
	return &contactRepository{}
}

var _ ContactRepository = (*contactRepository)(nil)

const contactColumns = `c.id, c.full_name, c.headline, c.location, c.country,
	c.current_company_name, c.current_company_industry, c.current_company_subindustry,
	c.current_title, c.years_experience, c.connections, c.lead_score,
	c.profile_url, c.linkedin_url, c.created_at, c.updated_at`

// contactSorts maps the accepted sort keys to ORDER BY clauses.
// Every clause ends on the id tie-break so pages stay stable.
var contactSorts = map[string]string{
	models.ContactSortRecent:      "c.id DESC",
	models.ContactSortName:        "c.full_name ASC, c.id DESC",
	models.ContactSortCompany:     "c.current_company_name ASC NULLS LAST, c.id DESC",
	models.ContactSortScore:       "c.lead_score DESC NULLS LAST, c.id DESC",
	models.ContactSortConnections: "c.connections DESC NULLS LAST, c.id DESC",
}

// ContactOrderBy returns the ORDER BY clause for a sort key, falling back to
// the default ordering for unknown keys.
func ContactOrderBy(sort string) string {
	if clause, ok := contactSorts[sort]; ok {
		return clause
	}
	return contactSorts[models.ContactSortRecent]
}

// ContactQuery builds the filtered contact query shared by the page and the count.
func ContactQuery(filter models.ContactFilter) *sql.Builder {
	b := sql.NewBuilder("contacts c").
		WhereFolded([]string{"c.full_name", "c.current_company_name"}, filter.Query).
		WhereContains("c.current_title", filter.Title).
		WhereContains("c.country", filter.Country).
		WhereContains("c.current_company_name", filter.CompanyName).
		WhereContains("c.current_company_industry", filter.Industry).
		WhereContains("c.current_company_subindustry", filter.SubIndustry)
	if filter.YearsExperience != nil {
		b.WhereEquals("c.years_experience", *filter.YearsExperience)
	}
	return b.OrderBy(ContactOrderBy(filter.Sort))
}

func (r *contactRepository) List(ctx context.Context, filter models.ContactFilter, page pagination.Params) ([]*models.Contact, int, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, 0, err
	}

	b := ContactQuery(filter)

	countSQL, countArgs := b.CountSQL()
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query, args := b.Page(page.Limit, page.Offset()).SelectSQL(contactColumns)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + contactColumns + ` FROM contacts c WHERE c.id = $1`

	contact, err := scanContact(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return contact, nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contacts (
			full_name, headline, location, country,
			current_company_name, current_company_industry, current_company_subindustry,
			current_title, years_experience, connections, lead_score,
			profile_url, linkedin_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err = q.QueryRow(ctx, query,
		c.FullName, c.Headline, c.Location, c.Country,
		c.CompanyName, c.CompanyIndustry, c.CompanySubIndustry,
		c.Title, c.YearsExperience, c.Connections, c.LeadScore,
		c.ProfileURL, c.LinkedInURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *contactRepository) Update(ctx context.Context, id int64, u *models.ContactUpdate) (*models.Contact, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	sets := make([]string, 0, 12)
	args := make([]any, 0, 12)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.FullName != nil {
		set("full_name", *u.FullName)
	}
	if u.Headline != nil {
		set("headline", nullString(*u.Headline))
	}
	if u.Location != nil {
		set("location", nullString(*u.Location))
	}
	if u.Country != nil {
		set("country", nullString(*u.Country))
	}
	if u.CompanyName != nil {
		set("current_company_name", nullString(*u.CompanyName))
	}
	if u.CompanyIndustry != nil {
		set("current_company_industry", nullString(*u.CompanyIndustry))
	}
	if u.CompanySubIndustry != nil {
		set("current_company_subindustry", nullString(*u.CompanySubIndustry))
	}
	if u.Title != nil {
		set("current_title", nullString(*u.Title))
	}
	if u.YearsExperience != nil {
		set("years_experience", *u.YearsExperience)
	}
	if u.LeadScore != nil {
		set("lead_score", *u.LeadScore)
	}
	if u.LinkedInURL != nil {
		set("linkedin_url", nullString(*u.LinkedInURL))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE contacts c SET %s WHERE c.id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), contactColumns)

	contact, err := scanContact(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (r *contactRepository) ListByCompanyName(ctx context.Context, name string) ([]*models.Contact, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts c
		WHERE c.current_company_name = $1
		   OR EXISTS (
		       SELECT 1 FROM experiences e
		       JOIN companies co ON co.id = e.company_id
		       WHERE e.contact_id = c.id AND e.is_current AND co.name = $1)
		ORDER BY c.full_name, c.id`

	rows, err := q.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query company contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *contactRepository) ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT COALESCE(current_company_industry, ''), current_company_subindustry, COUNT(*)
		FROM contacts
		WHERE current_company_subindustry IS NOT NULL AND current_company_subindustry <> ''
		GROUP BY 1, 2
		ORDER BY 1, 2`

	return queryPairs(ctx, q, query)
}

func (r *contactRepository) RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE contacts
		SET current_company_industry = $1, updated_at = now()
		WHERE COALESCE(current_company_industry, '') = $2
		  AND current_company_subindustry = $3`

	tag, err := q.Exec(ctx, query, industry, from.Industry, from.SubIndustry)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite contact industry: %w", err)
	}
	return tag.RowsAffected(), nil
}

func queryPairs(ctx context.Context, q database.Querier, query string) ([]taxonomy.Pair, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query industry pairs: %w", err)
	}
	defer rows.Close()

	var pairs []taxonomy.Pair
	for rows.Next() {
		var p taxonomy.Pair
		if err := rows.Scan(&p.Industry, &p.SubIndustry, &p.Rows); err != nil {
			return nil, fmt.Errorf("failed to scan industry pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating industry pairs: %w", err)
	}
	return pairs, nil
}

func collectContacts(rows pgx.Rows) ([]*models.Contact, error) {
	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID, &c.FullName, &c.Headline, &c.Location, &c.Country,
		&c.CompanyName, &c.CompanyIndustry, &c.CompanySubIndustry,
		&c.Title, &c.YearsExperience, &c.Connections, &c.LeadScore,
		&c.ProfileURL, &c.LinkedInURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
