package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/sql"
)

// ProspectRepository provides data access for legacy prospects.
type ProspectRepository interface {
	List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, int, error)
	GetByID(ctx context.Context, id int64) (*models.Prospect, error)
	Create(ctx context.Context, prospect *models.Prospect) error
	Update(ctx context.Context, prospect *models.Prospect) error
	Delete(ctx context.Context, id int64) error
	// ListUnmigrated returns up to limit prospects with id > afterID that
	// have no migration_mapping row, ordered by id.
	ListUnmigrated(ctx context.Context, afterID int64, limit int) ([]*models.Prospect, error)
}

type prospectRepository struct{}

// NewProspectRepository creates a new ProspectRepository.
func NewProspectRepository() ProspectRepository {
	return &prospectRepository{}
}

var _ ProspectRepository = (*prospectRepository)(nil)

const prospectColumns = `p.id, p.name, p.email, p.phone, p.company, p.position, p.sector,
	p.sub_sector, p.country, p.city, p.linkedin_url, p.notes, p.status,
	p.created_at, p.updated_at`

// ProspectQuery builds the filtered prospect query shared by the page and the count.
func ProspectQuery(filter models.ProspectFilter) *sql.Builder {
	b := sql.NewBuilder("prospects p").
		WhereFolded([]string{"p.name", "p.company", "p.email"}, filter.Query).
		WhereContains("p.sector", filter.Sector).
		WhereContains("p.country", filter.Country)
	if filter.Status != "" {
		b.WhereEquals("p.status", filter.Status)
	}
	return b.OrderBy("p.id DESC")
}

func (r *prospectRepository) List(ctx context.Context, filter models.ProspectFilter, page pagination.Params) ([]*models.Prospect, int, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, 0, err
	}

	b := ProspectQuery(filter)

	countSQL, countArgs := b.CountSQL()
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count prospects: %w", err)
	}

	query, args := b.Page(page.Limit, page.Offset()).SelectSQL(prospectColumns)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query prospects: %w", err)
	}
	defer rows.Close()

	prospects, err := collectProspects(rows)
	if err != nil {
		return nil, 0, err
	}
	return prospects, total, nil
}

func (r *prospectRepository) GetByID(ctx context.Context, id int64) (*models.Prospect, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + prospectColumns + ` FROM prospects p WHERE p.id = $1`
	p, err := scanProspect(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *prospectRepository) Create(ctx context.Context, p *models.Prospect) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	if p.Status == "" {
		p.Status = models.ProspectStatusNew
	}

	query := `
		INSERT INTO prospects (
			name, email, phone, company, position, sector, sub_sector,
			country, city, linkedin_url, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err = q.QueryRow(ctx, query,
		p.Name, p.Email, p.Phone, p.Company, p.Position, p.Sector, p.SubSector,
		p.Country, p.City, p.LinkedInURL, p.Notes, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prospect: %w", err)
	}
	return nil
}

func (r *prospectRepository) Update(ctx context.Context, p *models.Prospect) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	if p.Status == "" {
		p.Status = models.ProspectStatusNew
	}

	query := `
		UPDATE prospects
		SET name = $2, email = $3, phone = $4, company = $5, position = $6,
		    sector = $7, sub_sector = $8, country = $9, city = $10,
		    linkedin_url = $11, notes = $12, status = $13, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err = q.QueryRow(ctx, query,
		p.ID, p.Name, p.Email, p.Phone, p.Company, p.Position,
		p.Sector, p.SubSector, p.Country, p.City,
		p.LinkedInURL, p.Notes, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update prospect: %w", err)
	}
	return nil
}

func (r *prospectRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prospect: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *prospectRepository) ListUnmigrated(ctx context.Context, afterID int64, limit int) ([]*models.Prospect, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + prospectColumns + `
		FROM prospects p
		WHERE p.id > $1
		  AND NOT EXISTS (SELECT 1 FROM migration_mapping m WHERE m.prospect_id = p.id)
		ORDER BY p.id
		LIMIT $2`

	rows, err := q.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmigrated prospects: %w", err)
	}
	defer rows.Close()

	return collectProspects(rows)
}

func collectProspects(rows pgx.Rows) ([]*models.Prospect, error) {
	prospects := make([]*models.Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prospects: %w", err)
	}
	return prospects, nil
}

func scanProspect(row pgx.Row) (*models.Prospect, error) {
	var p models.Prospect
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Company, &p.Position, &p.Sector,
		&p.SubSector, &p.Country, &p.City, &p.LinkedInURL, &p.Notes, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
