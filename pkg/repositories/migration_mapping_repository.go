package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
)

// MigrationMappingRepository records which contact each legacy prospect became.
type MigrationMappingRepository interface {
	Create(ctx context.Context, m *models.MigrationMapping) error
	GetByProspect(ctx context.Context, prospectID int64) (*models.MigrationMapping, error)
}

type migrationMappingRepository struct{}

// NewMigrationMappingRepository creates a new MigrationMappingRepository.
func NewMigrationMappingRepository() MigrationMappingRepository {
	return &migrationMappingRepository{}
}

var _ MigrationMappingRepository = (*migrationMappingRepository)(nil)

func (r *migrationMappingRepository) Create(ctx context.Context, m *models.MigrationMapping) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	err = q.QueryRow(ctx, `
		INSERT INTO migration_mapping (prospect_id, contact_id, company_id, run_id)
		VALUES ($1, $2, $3, $4)
		RETURNING migrated_at`,
		m.ProspectID, m.ContactID, m.CompanyID, m.RunID,
	).Scan(&m.MigratedAt)
	if err != nil {
		return fmt.Errorf("failed to create migration mapping: %w", err)
	}
	return nil
}

func (r *migrationMappingRepository) GetByProspect(ctx context.Context, prospectID int64) (*models.MigrationMapping, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	var m models.MigrationMapping
	err = q.QueryRow(ctx, `
		SELECT prospect_id, contact_id, company_id, run_id, migrated_at
		FROM migration_mapping WHERE prospect_id = $1`, prospectID,
	).Scan(&m.ProspectID, &m.ContactID, &m.CompanyID, &m.RunID, &m.MigratedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}
