package admins

import (
	"context"

	"github.com/logicspark/logicspark/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	// GetByUsernameForUpdate locks the row until the surrounding transaction ends.
	GetByUsernameForUpdate(ctx context.Context, username string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id, email, passwordHash string) error
}
