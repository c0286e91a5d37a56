package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// LookupRepository reads the reference tables backing the admin forms.
type LookupRepository interface {
	GetAll(ctx context.Context) (*models.Lookups, error)
	// SyncSectors inserts every industry and sub-industry of the taxonomy
	// into secteurs. Existing rows are kept. Returns the number of rows added.
	SyncSectors(ctx context.Context, tax *taxonomy.Taxonomy) (int64, error)
}

type lookupRepository struct{}

// NewLookupRepository creates a new LookupRepository.
func NewLookupRepository() LookupRepository {
	return &lookupRepository{}
}

var _ LookupRepository = (*lookupRepository)(nil)

func (r *lookupRepository) GetAll(ctx context.Context) (*models.Lookups, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	lookups := &models.Lookups{
		Categories:   make([]*models.JobCategory, 0),
		Sectors:      make([]*models.Sector, 0),
		Countries:    make([]*models.Country, 0),
		CompanySizes: make([]*models.CompanySize, 0),
	}

	rows, err := q.Query(ctx, `SELECT id, name FROM categories_poste ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query job categories: %w", err)
	}
	for rows.Next() {
		var c models.JobCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan job category: %w", err)
		}
		lookups.Categories = append(lookups.Categories, &c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job categories: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT id, name, parent FROM secteurs ORDER BY parent, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.Name, &s.Parent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		lookups.Sectors = append(lookups.Sectors, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT id, code, name FROM pays ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		lookups.Countries = append(lookups.Countries, &c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating countries: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT id, label, min_staff, max_staff FROM tailles_entreprise ORDER BY min_staff NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query company sizes: %w", err)
	}
	for rows.Next() {
		var s models.CompanySize
		if err := rows.Scan(&s.ID, &s.Label, &s.MinStaff, &s.MaxStaff); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan company size: %w", err)
		}
		lookups.CompanySizes = append(lookups.CompanySizes, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company sizes: %w", err)
	}

	return lookups, nil
}

func (r *lookupRepository) SyncSectors(ctx context.Context, tax *taxonomy.Taxonomy) (int64, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return 0, err
	}

	insert := `INSERT INTO secteurs (name, parent) VALUES ($1, $2) ON CONFLICT (name, parent) DO NOTHING`

	var added int64
	for _, industry := range tax.Industries() {
		tag, err := q.Exec(ctx, insert, industry, "")
		if err != nil {
			return added, fmt.Errorf("failed to insert sector %q: %w", industry, err)
		}
		added += tag.RowsAffected()

		for _, sub := range tax.SubIndustries(industry) {
			tag, err := q.Exec(ctx, insert, sub, industry)
			if err != nil {
				return added, fmt.Errorf("failed to insert sub-sector %q: %w", sub, err)
			}
			added += tag.RowsAffected()
		}
	}
	return added, nil
}
