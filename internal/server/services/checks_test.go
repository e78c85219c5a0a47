package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

func TestCheckService_Create(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()

	c, err := f.checks.Create(ctx, testPhone, sampleSpec())
	require.NoError(t, err)
	assert.Len(t, c.ID, models.CheckIDLength)
	assert.Equal(t, testPhone, c.UserPhone)
	assert.Equal(t, []int{200}, c.SuccessCodes)

	u, err := f.users.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, u.Checks)
}

func TestCheckService_CreateLimit(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()

	for i := 0; i < testConfig().MaxChecks; i++ {
		_, err := f.checks.Create(ctx, testPhone, sampleSpec())
		require.NoError(t, err)
	}

	_, err := f.checks.Create(ctx, testPhone, sampleSpec())
	assert.ErrorIs(t, err, common.ErrorLimitReached)
}

func TestCheckService_ConcurrentCreateKeepsLimitAndList(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()
	limit := testConfig().MaxChecks

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []string
		limited int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.checks.Create(ctx, testPhone, sampleSpec())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created = append(created, c.ID)
			case errors.Is(err, common.ErrorLimitReached):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, created, limit)
	assert.Equal(t, workers-limit, limited)
	assert.Equal(t, limit, f.store.Len(documents.CollectionChecks))

	u, err := f.users.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.ElementsMatch(t, created, u.Checks)
}

func TestCheckService_CreateWithoutOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.checks.Create(context.Background(), testPhone, sampleSpec())
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestCheckService_Update(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()

	c, err := f.checks.Create(ctx, testPhone, sampleSpec())
	require.NoError(t, err)

	method := "post"
	timeout := 5
	updated, err := f.checks.Update(ctx, c, CheckChanges{Method: &method, TimeoutSeconds: &timeout, SuccessCodes: []int{200, 204}})
	require.NoError(t, err)

	got, err := f.checks.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Equal(t, "post", got.Method)
	assert.Equal(t, 5, got.TimeoutSeconds)
	assert.Equal(t, []int{200, 204}, got.SuccessCodes)
	assert.Equal(t, "https", got.Protocol)
}

func TestCheckService_Delete(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()

	c1, err := f.checks.Create(ctx, testPhone, sampleSpec())
	require.NoError(t, err)
	c2, err := f.checks.Create(ctx, testPhone, sampleSpec())
	require.NoError(t, err)

	require.NoError(t, f.checks.Delete(ctx, c1))

	_, err = f.checks.Get(ctx, c1.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	u, err := f.users.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, []string{c2.ID}, u.Checks)
}

func TestCheckService_DeleteOwnerMissing(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, testPhone)
	ctx := context.Background()

	c, err := f.checks.Create(ctx, testPhone, sampleSpec())
	require.NoError(t, err)
	require.NoError(t, f.rm.Users().Delete(ctx, testPhone))

	assert.ErrorIs(t, f.checks.Delete(ctx, c), ErrOwnerMissing)
	_, err = f.checks.Get(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
