package sponsors

import (
	"context"
	"database/sql"
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

// Insert stores the request. A nil Phone is written as NULL.
func (r *PostgresRepository) Insert(ctx context.Context, s *models.Sponsor) (*models.Sponsor, error) {
	query :=
		`INSERT INTO sponsors (name, email, phone, support_type, message)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_read, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.Name, s.Email, toNullString(s.Phone), s.SupportType, s.Message).
		Scan(&s.ID, &s.IsRead, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Sponsor, error) {
	query :=
		`SELECT id, name, email, phone, support_type, message, is_read, created_at FROM sponsors
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Sponsor, 0)
	for rows.Next() {
		s := &models.Sponsor{}
		var phone sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &phone, &s.SupportType, &s.Message, &s.IsRead, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if phone.Valid {
			s.Phone = &phone.String
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE sponsors SET is_read = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
}

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

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
