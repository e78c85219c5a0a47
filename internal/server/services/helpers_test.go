package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
)

const (
	testPhone    = "5551234567"
	testPassword = "secret1"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

// fixture wires every service over one in-memory store.
type fixture struct {
	store  *documents.MemoryStore
	rm     *repomanager.StoreRepositoryManager
	tokens *TokenService
	users  *UserService
	checks *CheckService
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, documents.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, store documents.Store) *fixture {
	t.Helper()
	cfg := testConfig()
	rm := repomanager.NewStoreRepositoryManager(store)

	f := &fixture{rm: rm, now: testNow}
	if ms, ok := store.(*documents.MemoryStore); ok {
		f.store = ms
	}
	f.tokens = NewTokenService(rm, cfg)
	f.tokens.now = func() time.Time { return f.now }
	f.users = NewUserService(rm, cfg, logging.NopLogger{})
	f.checks = NewCheckService(rm, cfg)
	return f
}

func (f *fixture) createUser(t *testing.T, phone string) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), NewUser{
		FirstName: "Ann",
		LastName:  "Lee",
		Phone:     phone,
		Password:  testPassword,
	}))
}

func sampleSpec() CheckSpec {
	return CheckSpec{
		Protocol:       "https",
		URL:            "example.com",
		Method:         "get",
		SuccessCodes:   []int{200},
		TimeoutSeconds: 3,
	}
}

// failingDeleteStore fails Delete for one collection only.
type failingDeleteStore struct {
	documents.Store
	collection string
	err        error
}

func (s *failingDeleteStore) Delete(ctx context.Context, collection, key string) error {
	if collection == s.collection {
		return s.err
	}
	return s.Store.Delete(ctx, collection, key)
}
