package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/sql"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// MaxSuggestions caps the number of values returned by Suggestions.
const MaxSuggestions = 10

// CompanyRepository provides data access for companies.
type CompanyRepository interface {
	List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, int, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	// Upsert inserts the company unless one with the same name exists and
	// returns the id of the stored row either way.
	Upsert(ctx context.Context, company *models.Company) (int64, error)
	Suggestions(ctx context.Context, field, term string) ([]string, error)

	// Industry repair
	ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error)
	RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error)
}

type companyRepository struct{}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository() CompanyRepository {
	return &companyRepository{}
}

var _ CompanyRepository = (*companyRepository)(nil)

const companyColumns = `co.id, co.name, co.domain, co.industry, co.sub_industry, co.size,
	co.website, co.founded_year, co.headcount, co.created_at, co.updated_at`

var companySorts = map[string]string{
	models.CompanySortRecent: "co.id DESC",
	models.CompanySortName:   "co.name ASC, co.id DESC",
}

// CompanyQuery builds the filtered company query shared by the page and the count.
func CompanyQuery(filter models.CompanyFilter) *sql.Builder {
	order, ok := companySorts[filter.Sort]
	if !ok {
		order = companySorts[models.CompanySortRecent]
	}
	return sql.NewBuilder("companies co").
		WhereFolded([]string{"co.name", "co.domain"}, filter.Query).
		WhereContains("co.industry", filter.Industry).
		OrderBy(order)
}

func (r *companyRepository) List(ctx context.Context, filter models.CompanyFilter, page pagination.Params) ([]*models.Company, int, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, 0, err
	}

	b := CompanyQuery(filter)

	countSQL, countArgs := b.CountSQL()
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query, args := b.Page(page.Limit, page.Offset()).SelectSQL(companyColumns)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating companies: %w", err)
	}
	return companies, total, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + companyColumns + ` FROM companies co WHERE co.id = $1`
	company, err := scanCompany(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return company, nil
}

func (r *companyRepository) Upsert(ctx context.Context, c *models.Company) (int64, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return 0, err
	}

	insert := `
		INSERT INTO companies (name, domain, industry, sub_industry, size, website, founded_year, headcount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO NOTHING`

	if _, err := q.Exec(ctx, insert,
		c.Name, c.Domain, c.Industry, c.SubIndustry, c.Size, c.Website, c.FoundedYear, c.Headcount,
	); err != nil {
		return 0, fmt.Errorf("failed to upsert company: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, `SELECT id FROM companies WHERE name = $1`, c.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve company id: %w", err)
	}
	return id, nil
}

// suggestionSources maps a suggestion field to the subquery producing its values.
var suggestionSources = map[string]string{
	models.SuggestionFieldDomain:    `(SELECT domain AS v FROM companies) s`,
	models.SuggestionFieldSector:    `(SELECT industry AS v FROM companies) s`,
	models.SuggestionFieldSubSector: `(SELECT sub_industry AS v FROM companies) s`,
	models.SuggestionFieldAll: `(SELECT domain AS v FROM companies
		UNION SELECT industry FROM companies
		UNION SELECT sub_industry FROM companies) s`,
}

func (r *companyRepository) Suggestions(ctx context.Context, field, term string) ([]string, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query, args := sql.NewBuilder(suggestionSources[models.NormalizeSuggestionField(field)]).
		Where("s.v IS NOT NULL AND s.v <> ''").
		WhereFolded([]string{"s.v"}, term).
		OrderBy("s.v").
		Page(MaxSuggestions, 0).
		SelectSQL("DISTINCT s.v")

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query company suggestions: %w", err)
	}
	defer rows.Close()

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan company suggestions: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func (r *companyRepository) ListIndustryPairs(ctx context.Context) ([]taxonomy.Pair, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT COALESCE(industry, ''), sub_industry, COUNT(*)
		FROM companies
		WHERE sub_industry IS NOT NULL AND sub_industry <> ''
		GROUP BY 1, 2
		ORDER BY 1, 2`

	return queryPairs(ctx, q, query)
}

func (r *companyRepository) RewriteIndustry(ctx context.Context, from taxonomy.Pair, industry string) (int64, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE companies
		SET industry = $1, updated_at = now()
		WHERE COALESCE(industry, '') = $2 AND sub_industry = $3`

	tag, err := q.Exec(ctx, query, industry, from.Industry, from.SubIndustry)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite company industry: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Domain, &c.Industry, &c.SubIndustry, &c.Size,
		&c.Website, &c.FoundedYear, &c.Headcount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
