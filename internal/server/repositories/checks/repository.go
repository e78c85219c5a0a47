// Package checks stores uptime check definitions.
package checks

import (
	"context"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, check *models.Check) error
	Get(ctx context.Context, id string) (*models.Check, error)
	Update(ctx context.Context, check *models.Check) error
	Delete(ctx context.Context, id string) error
}
