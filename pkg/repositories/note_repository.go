package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
)

// NoteRepository provides data access for contact notes.
type NoteRepository interface {
	ListByContact(ctx context.Context, contactID int64) ([]*models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id int64) error
}

type noteRepository struct{}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository() NoteRepository {
	return &noteRepository{}
}

var _ NoteRepository = (*noteRepository)(nil)

func (r *noteRepository) ListByContact(ctx context.Context, contactID int64) ([]*models.Note, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, contact_id, content, created_at
		FROM notes
		WHERE contact_id = $1
		ORDER BY created_at DESC, id DESC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.ContactID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) Create(ctx context.Context, n *models.Note) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	err = q.QueryRow(ctx,
		`INSERT INTO notes (contact_id, content) VALUES ($1, $2) RETURNING id, created_at`,
		n.ContactID, n.Content,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
