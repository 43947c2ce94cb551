// Package memory provides map-backed repositories that honour the same
// contracts as the Postgres ones, including identity uniqueness. Handler
// tests run the real services on top of it.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/repositories/admins"
	"github.com/logicspark/logicspark/internal/server/repositories/contacts"
	"github.com/logicspark/logicspark/internal/server/repositories/sponsors"
	"github.com/logicspark/logicspark/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same repositories regardless of
// the DBTX; there are no transactions.
type InMemoryRepositoryManager struct {
	users    *Users
	admins   *Admins
	contacts *Contacts
	sponsors *Sponsors
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	clk := &clock{now: time.Now}
	return &InMemoryRepositoryManager{
		users:    &Users{byEmail: map[string]*models.User{}},
		admins:   &Admins{byName: map[string]*models.Admin{}},
		contacts: &Contacts{clock: clk},
		sponsors: &Sponsors{clock: clk},
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *InMemoryRepositoryManager) Admins(dbx.DBTX) admins.Repository            { return m.admins }
func (m *InMemoryRepositoryManager) Contacts(dbx.DBTX) contacts.Repository        { return m.contacts }
func (m *InMemoryRepositoryManager) Sponsors(dbx.DBTX) sponsors.Repository        { return m.sponsors }

// clock hands out strictly increasing timestamps so newest-first ordering is
// stable even when inserts land within the same clock tick.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
