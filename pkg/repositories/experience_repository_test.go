//go:build integration

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/models"
	"github.com/ekaya-inc/prospect-crm/pkg/testhelpers"
)

func TestExperienceRepository_SecondCurrentIsConflict(t *testing.T) {
	db := testhelpers.GetCRMDB(t)
	db.Truncate(t)
	ctx, cleanup := db.Scope(t)
	defer cleanup()

	contact := seedContact(t, ctx, NewContactRepository(), &models.Contact{FullName: "Jean Muller"})
	repo := NewExperienceRepository()

	first := &models.Experience{ContactID: contact.ID, Title: strPtr("Engineer"), IsCurrent: true}
	require.NoError(t, repo.Create(ctx, first))

	// inserted without ClearCurrent, as a concurrent request would
	second := &models.Experience{ContactID: contact.ID, Title: strPtr("CTO"), IsCurrent: true, Position: 1}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, repo.ClearCurrent(ctx, contact.ID))
	require.NoError(t, repo.Create(ctx, second))

	experiences, err := repo.ListByContact(ctx, contact.ID)
	require.NoError(t, err)
	require.Len(t, experiences, 2)
	assert.False(t, experiences[0].IsCurrent)
	assert.True(t, experiences[1].IsCurrent)
}
