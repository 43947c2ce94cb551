package sponsors

import (
	"context"

	"github.com/logicspark/logicspark/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, s *models.Sponsor) (*models.Sponsor, error)
	ListAll(ctx context.Context) ([]*models.Sponsor, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
