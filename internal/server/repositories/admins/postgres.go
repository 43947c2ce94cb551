package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/server/models"
)

const selectAdmin = `SELECT id, username, email, password, role, created_at FROM admin_users
		 WHERE username = $1`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	query :=
		`INSERT INTO admin_users (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, role, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, admin.Username, admin.Email, admin.PasswordHash).
		Scan(&admin.ID, &admin.Role, &admin.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.get(ctx, selectAdmin, username)
}

func (r *PostgresRepository) GetByUsernameForUpdate(ctx context.Context, username string) (*models.Admin, error) {
	return r.get(ctx, selectAdmin+"\n\t\t FOR UPDATE", username)
}

func (r *PostgresRepository) get(ctx context.Context, query, username string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.Role, &admin.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, email, passwordHash string) error {
	query :=
		`UPDATE admin_users SET password = $2, email = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, passwordHash, email)
	if err != nil {
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
