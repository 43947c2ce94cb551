package contacts

import (
	"context"

	"github.com/logicspark/logicspark/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, c *models.Contact) (*models.Contact, error)
	// ListAll returns every contact, newest first.
	ListAll(ctx context.Context) ([]*models.Contact, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
