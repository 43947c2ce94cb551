package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/server/models"
)

// Contacts keeps contacts newest first.
type Contacts struct {
	mu    sync.RWMutex
	clock *clock
	items []*models.Contact
}

func (r *Contacts) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	c.IsRead = false
	c.CreatedAt = r.clock.next()
	stored := *c
	r.items = append([]*models.Contact{&stored}, r.items...)
	return c, nil
}

func (r *Contacts) ListAll(ctx context.Context) ([]*models.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Contact, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *Contacts) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		if c.ID == id {
			c.IsRead = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *Contacts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.items {
		if c.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// Sponsors keeps sponsorship requests newest first.
type Sponsors struct {
	mu    sync.RWMutex
	clock *clock
	items []*models.Sponsor
}

func (r *Sponsors) Insert(ctx context.Context, s *models.Sponsor) (*models.Sponsor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.NewString()
	s.IsRead = false
	s.CreatedAt = r.clock.next()
	stored := *s
	r.items = append([]*models.Sponsor{&stored}, r.items...)
	return s, nil
}

func (r *Sponsors) ListAll(ctx context.Context) ([]*models.Sponsor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Sponsor, 0, len(r.items))
	for _, s := range r.items {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *Sponsors) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.items {
		if s.ID == id {
			s.IsRead = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *Sponsors) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.items {
		if s.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}
