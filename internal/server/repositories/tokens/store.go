package tokens

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

// StoreRepository keeps tokens in the tokens collection keyed by id.
type StoreRepository struct {
	store documents.Store
}

// NewStoreRepository constructs a repository bound to the given store.
func NewStoreRepository(store documents.Store) *StoreRepository {
	return &StoreRepository{store: store}
}

func (r *StoreRepository) Create(ctx context.Context, token *models.Token) error {
	return r.store.Create(ctx, documents.CollectionTokens, token.ID, token)
}

func (r *StoreRepository) Find(ctx context.Context, id string) (*models.Token, error) {
	token := &models.Token{}
	if err := r.store.Read(ctx, documents.CollectionTokens, id, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (r *StoreRepository) Update(ctx context.Context, token *models.Token) error {
	return r.store.Update(ctx, documents.CollectionTokens, token.ID, token)
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, documents.CollectionTokens, id)
}

func (r *StoreRepository) IDs(ctx context.Context) ([]string, error) {
	return r.store.List(ctx, documents.CollectionTokens)
}
