// Package repomanager opens the configured document store and vends the
// typed repositories built on top of it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/checks"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Tokens() tokens.Repository
	Checks() checks.Repository
	Close() error
}

// StoreRepositoryManager vends repositories that share one documents.Store.
type StoreRepositoryManager struct {
	store documents.Store
}

// NewStoreRepositoryManager wraps an already opened store.
func NewStoreRepositoryManager(store documents.Store) *StoreRepositoryManager {
	return &StoreRepositoryManager{store: store}
}

func (m *StoreRepositoryManager) Users() users.Repository {
	return users.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Tokens() tokens.Repository {
	return tokens.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Checks() checks.Repository {
	return checks.NewStoreRepository(m.store)
}

// Store returns the underlying document store.
func (m *StoreRepositoryManager) Store() documents.Store {
	return m.store
}

func (m *StoreRepositoryManager) Close() error {
	return m.store.Close()
}

// Seams for tests.
var (
	openSQLStore = documents.OpenSQLStore
	newS3Client  = func(ctx context.Context, o documents.S3Options) (documents.S3API, error) {
		return documents.NewS3Client(ctx, o)
	}
	migrateSQLStore = func(ctx context.Context, s *documents.SQLStore) error {
		return s.Migrate(ctx)
	}
)

// Open builds the store selected by cfg.StorageDriver. SQL stores are
// migrated before they are returned.
func Open(ctx context.Context, cfg *config.Config) (*StoreRepositoryManager, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStoreRepositoryManager(store), nil
}

func openStore(ctx context.Context, cfg *config.Config) (documents.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		return documents.NewFileStore(cfg.DataDir)

	case config.DriverMemory:
		return documents.NewMemoryStore(), nil

	case config.DriverPostgres, config.DriverSQLite:
		dialect := documents.DialectPostgres
		if cfg.StorageDriver == config.DriverSQLite {
			dialect = documents.DialectSQLite
		}
		s, err := openSQLStore(ctx, dialect, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := migrateSQLStore(ctx, s); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return s, nil

	case config.DriverS3:
		client, err := newS3Client(ctx, documents.S3Options{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
		})
		if err != nil {
			return nil, err
		}
		return documents.NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
