package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

func TestStoreRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(documents.NewMemoryStore())

	c := &models.Check{
		ID:             "abcdefghij0123456789",
		UserPhone:      "5551234567",
		Protocol:       "https",
		URL:            "example.com",
		Method:         "get",
		SuccessCodes:   []int{200, 201},
		TimeoutSeconds: 3,
	}
	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, c), common.ErrorAlreadyExists)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	got.URL = "example.org"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "example.org", got.URL)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
