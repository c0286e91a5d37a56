package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
)

// TopBuckets is the number of entries in each dashboard ranking.
const TopBuckets = 10

// StatsRepository aggregates dashboard figures.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type statsRepository struct{}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository() StatsRepository {
	return &statsRepository{}
}

var _ StatsRepository = (*statsRepository)(nil)

func (r *statsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{}
	err = q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM contacts),
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM prospects),
			(SELECT COUNT(*) FROM migration_mapping)`,
	).Scan(&stats.Contacts, &stats.Companies, &stats.Prospects, &stats.MigratedLegacy)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	stats.TopIndustries, err = r.topBuckets(ctx, q, "current_company_industry")
	if err != nil {
		return nil, err
	}
	stats.TopCountries, err = r.topBuckets(ctx, q, "country")
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// topBuckets ranks contacts by a column. column is a trusted identifier.
func (r *statsRepository) topBuckets(ctx context.Context, q database.Querier, column string) ([]*models.Bucket, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*)
		FROM contacts
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC, %[1]s
		LIMIT $1`, column)

	rows, err := q.Query(ctx, query, TopBuckets)
	if err != nil {
		return nil, fmt.Errorf("failed to rank contacts by %s: %w", column, err)
	}
	defer rows.Close()

	buckets := make([]*models.Bucket, 0, TopBuckets)
	for rows.Next() {
		var b models.Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		buckets = append(buckets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buckets: %w", err)
	}
	return buckets, nil
}
