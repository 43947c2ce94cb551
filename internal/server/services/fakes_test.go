package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/repositories/admins"
	"github.com/logicspark/logicspark/internal/server/repositories/contacts"
	"github.com/logicspark/logicspark/internal/server/repositories/sponsors"
	"github.com/logicspark/logicspark/internal/server/repositories/users"
)

// memUsers enforces email uniqueness in Create the way the UNIQUE constraint
// does, independent of what GetByEmail reported.
type memUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*models.User
	seq       int
	getErr    error
	createErr error
	// blindLookup makes GetByEmail always miss, to exercise the
	// check-then-create race.
	blindLookup bool
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*models.User{}} }

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	r.seq++
	u.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.seq)
	u.CreatedAt = time.Now()
	cp := *u
	r.byEmail[u.Email] = &cp
	return u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || r.blindLookup {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type memAdmins struct {
	mu         sync.Mutex
	byName     map[string]*models.Admin
	getErr     error
	updateErr  error
	lockedRead bool
}

func newMemAdmins() *memAdmins { return &memAdmins{byName: map[string]*models.Admin{}} }

func (r *memAdmins) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[a.Username]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	a.ID = fmt.Sprintf("a-%d", len(r.byName)+1)
	a.Role = common.RoleAdmin
	cp := *a
	r.byName[a.Username] = &cp
	return a, nil
}

func (r *memAdmins) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAdmins) GetByUsernameForUpdate(ctx context.Context, username string) (*models.Admin, error) {
	r.lockedRead = true
	return r.GetByUsername(ctx, username)
}

func (r *memAdmins) UpdatePassword(ctx context.Context, id, email, hash string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byName {
		if a.ID == id {
			a.Email, a.PasswordHash = email, hash
			return nil
		}
	}
	return common.ErrorNotFound
}

type memContacts struct {
	items []*models.Contact
	err   error
}

func (r *memContacts) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if r.err != nil {
		return nil, r.err
	}
	c.ID = fmt.Sprintf("c-%d", len(r.items)+1)
	c.CreatedAt = time.Now()
	r.items = append([]*models.Contact{c}, r.items...)
	return c, nil
}

func (r *memContacts) ListAll(ctx context.Context) ([]*models.Contact, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]*models.Contact{}, r.items...), nil
}

func (r *memContacts) find(id string) int {
	for i, c := range r.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (r *memContacts) MarkRead(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	i := r.find(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.items[i].IsRead = true
	return nil
}

func (r *memContacts) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	i := r.find(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

type memSponsors struct {
	items []*models.Sponsor
	err   error
}

func (r *memSponsors) Insert(ctx context.Context, s *models.Sponsor) (*models.Sponsor, error) {
	if r.err != nil {
		return nil, r.err
	}
	s.ID = fmt.Sprintf("s-%d", len(r.items)+1)
	r.items = append([]*models.Sponsor{s}, r.items...)
	return s, nil
}

func (r *memSponsors) ListAll(ctx context.Context) ([]*models.Sponsor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]*models.Sponsor{}, r.items...), nil
}

func (r *memSponsors) MarkRead(ctx context.Context, id string) error {
	for _, s := range r.items {
		if s.ID == id {
			s.IsRead = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memSponsors) Delete(ctx context.Context, id string) error {
	for i, s := range r.items {
		if s.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	users    *memUsers
	admins   *memAdmins
	contacts *memContacts
	sponsors *memSponsors
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    newMemUsers(),
		admins:   newMemAdmins(),
		contacts: &memContacts{},
		sponsors: &memSponsors{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Admins(dbx.DBTX) admins.Repository            { return m.admins }
func (m *fakeRepoManager) Contacts(dbx.DBTX) contacts.Repository        { return m.contacts }
func (m *fakeRepoManager) Sponsors(dbx.DBTX) sponsors.Repository        { return m.sponsors }
