package checks

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

type StoreRepository struct {
	store documents.Store
}

func NewStoreRepository(store documents.Store) *StoreRepository {
	return &StoreRepository{store: store}
}

func (r *StoreRepository) Create(ctx context.Context, check *models.Check) error {
	return r.store.Create(ctx, documents.CollectionChecks, check.ID, check)
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.Check, error) {
	check := &models.Check{}
	if err := r.store.Read(ctx, documents.CollectionChecks, id, check); err != nil {
		return nil, err
	}
	return check, nil
}

func (r *StoreRepository) Update(ctx context.Context, check *models.Check) error {
	return r.store.Update(ctx, documents.CollectionChecks, check.ID, check)
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, documents.CollectionChecks, id)
}
