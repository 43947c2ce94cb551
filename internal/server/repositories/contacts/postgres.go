package contacts

import (
	"context"
	"fmt"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (fullname, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_read, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, c.FullName, c.Email, c.Message).
		Scan(&c.ID, &c.IsRead, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Contact, error) {
	query :=
		`SELECT id, fullname, email, message, is_read, created_at FROM contacts
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Message, &c.IsRead, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE contacts SET is_read = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM contacts WHERE id = $1`, id)
}

// execOne runs a statement keyed by id and reports common.ErrorNotFound when it
// touched no row or the id is not a valid UUID.
func (r *PostgresRepository) execOne(ctx context.Context, query, id string) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
