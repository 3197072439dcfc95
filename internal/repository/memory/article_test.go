package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authsys-server/internal/model"
)

func TestArticleRepository(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	repo := NewArticleRepository(DemoArticles(owner))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, owner, list[0].OwnerID)
	assert.NotEqual(t, owner, list[1].OwnerID)

	updated, err := repo.UpdateTitle(ctx, 1, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = repo.Get(ctx, 100)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.UpdateTitle(ctx, 100, "x")
	require.ErrorIs(t, err, model.ErrNotFound)
}
