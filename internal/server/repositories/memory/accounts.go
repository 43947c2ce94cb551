package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/server/models"
)

type Users struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func (r *Users) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	stored := *u
	r.byEmail[u.Email] = &stored
	return u, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

type Admins struct {
	mu     sync.RWMutex
	byName map[string]*models.Admin
}

func (r *Admins) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[a.Username]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	a.ID = uuid.NewString()
	a.Role = common.RoleAdmin
	a.CreatedAt = time.Now().UTC()
	stored := *a
	r.byName[a.Username] = &stored
	return a, nil
}

func (r *Admins) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

// GetByUsernameForUpdate takes no lock; there are no transactions here.
func (r *Admins) GetByUsernameForUpdate(ctx context.Context, username string) (*models.Admin, error) {
	return r.GetByUsername(ctx, username)
}

func (r *Admins) UpdatePassword(ctx context.Context, id, email, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byName {
		if a.ID == id {
			a.Email = email
			a.PasswordHash = passwordHash
			return nil
		}
	}
	return common.ErrorNotFound
}
