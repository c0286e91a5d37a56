package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
)

// NoteService manages free-text notes on contacts.
type NoteService interface {
	List(ctx context.Context, contactID int64) ([]*models.Note, error)
	Create(ctx context.Context, contactID int64, content string) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
}

type noteService struct {
	noteRepo    repositories.NoteRepository
	contactRepo repositories.ContactRepository
	logger      *zap.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(noteRepo repositories.NoteRepository, contactRepo repositories.ContactRepository, logger *zap.Logger) NoteService {
	return &noteService{
		noteRepo:    noteRepo,
		contactRepo: contactRepo,
		logger:      logger.Named("note-service"),
	}
}

var _ NoteService = (*noteService)(nil)

func (s *noteService) List(ctx context.Context, contactID int64) ([]*models.Note, error) {
	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return nil, err
	}
	return s.noteRepo.ListByContact(ctx, contactID)
}

func (s *noteService) Create(ctx context.Context, contactID int64, content string) (*models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}
	if _, err := s.contactRepo.GetByID(ctx, contactID); err != nil {
		return nil, err
	}

	note := &models.Note{ContactID: contactID, Content: content}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, id int64) error {
	return s.noteRepo.Delete(ctx, id)
}
