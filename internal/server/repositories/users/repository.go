// Package users declares the repository contract for user documents and a
// document-store backed implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
)

// Repository stores users keyed by phone number.
type Repository interface {
	// Create stores a new user. It fails with common.ErrorAlreadyExists if
	// the phone is taken.
	Create(ctx context.Context, user *models.User) error

	// Get returns the user for phone or common.ErrorNotFound.
	Get(ctx context.Context, phone string) (*models.User, error)

	// Update replaces an existing user.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user for phone.
	Delete(ctx context.Context, phone string) error
}
