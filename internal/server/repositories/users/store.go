package users

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

// StoreRepository keeps each user as one document in the users collection.
type StoreRepository struct {
	store documents.Store
}

func NewStoreRepository(store documents.Store) *StoreRepository {
	return &StoreRepository{store: store}
}

func (r *StoreRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.Create(ctx, documents.CollectionUsers, user.Phone, user)
}

func (r *StoreRepository) Get(ctx context.Context, phone string) (*models.User, error) {
	user := &models.User{}
	if err := r.store.Read(ctx, documents.CollectionUsers, phone, user); err != nil {
		return nil, err
	}
	if user.Checks == nil {
		user.Checks = []string{}
	}
	return user, nil
}

func (r *StoreRepository) Update(ctx context.Context, user *models.User) error {
	return r.store.Update(ctx, documents.CollectionUsers, user.Phone, user)
}

func (r *StoreRepository) Delete(ctx context.Context, phone string) error {
	return r.store.Delete(ctx, documents.CollectionUsers, phone)
}
