// Package tokens declares the server-side repository contract for session
// tokens together with a document-store backed implementation.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
)

// Repository defines operations for issuing, retrieving, extending and
// revoking session tokens.
type Repository interface {
	// Create stores a new token. An id collision yields common.ErrorAlreadyExists.
	Create(ctx context.Context, token *models.Token) error

	// Find looks up a token by id and returns common.ErrorNotFound when absent.
	Find(ctx context.Context, id string) (*models.Token, error)

	// Update replaces a stored token, typically with a later expiry.
	Update(ctx context.Context, token *models.Token) error

	// Delete removes a token by id. Deleting an absent token is
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) error

	// IDs lists the ids of all stored tokens.
	IDs(ctx context.Context) ([]string, error)
}
