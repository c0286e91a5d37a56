package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
)

// ExperienceRepository provides data access for contact experiences.
type ExperienceRepository interface {
	ListByContact(ctx context.Context, contactID int64) ([]*models.Experience, error)
	Create(ctx context.Context, exp *models.Experience) error
	// ClearCurrent unsets is_current on every experience of the contact.
	ClearCurrent(ctx context.Context, contactID int64) error
	NextPosition(ctx context.Context, contactID int64) (int, error)
}

type experienceRepository struct{}

// NewExperienceRepository creates a new ExperienceRepository.
func NewExperienceRepository() ExperienceRepository {
	return &experienceRepository{}
}

var _ ExperienceRepository = (*experienceRepository)(nil)

func (r *experienceRepository) ListByContact(ctx context.Context, contactID int64) ([]*models.Experience, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.contact_id, e.company_id, co.name, e.title, e.job_category,
		       e.is_current, e.position, e.created_at
		FROM experiences e
		LEFT JOIN companies co ON co.id = e.company_id
		WHERE e.contact_id = $1
		ORDER BY e.position, e.id`

	rows, err := q.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	experiences := make([]*models.Experience, 0)
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.ID, &e.ContactID, &e.CompanyID, &e.CompanyName, &e.Title,
			&e.JobCategory, &e.IsCurrent, &e.Position, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experiences: %w", err)
	}
	return experiences, nil
}

func (r *experienceRepository) Create(ctx context.Context, e *models.Experience) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO experiences (contact_id, company_id, title, job_category, is_current, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = q.QueryRow(ctx, query,
		e.ContactID, e.CompanyID, e.Title, e.JobCategory, e.IsCurrent, e.Position,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		// uq_experiences_one_current: a concurrent request added a current experience first
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create experience: %w", err)
	}
	return nil
}

func (r *experienceRepository) ClearCurrent(ctx context.Context, contactID int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, `UPDATE experiences SET is_current = false WHERE contact_id = $1 AND is_current`, contactID); err != nil {
		return fmt.Errorf("failed to clear current experience: %w", err)
	}
	return nil
}

func (r *experienceRepository) NextPosition(ctx context.Context, contactID int64) (int, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return 0, err
	}

	var next int
	err = q.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM experiences WHERE contact_id = $1`, contactID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute experience position: %w", err)
	}
	return next, nil
}
