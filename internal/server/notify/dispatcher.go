package notify

import (
	"context"
	"sync"
	"time"

	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/models"
)

const defaultSendTimeout = 30 * time.Second

// Dispatcher renders submission notifications and sends them in the
// background. Delivery failures are logged and never reach the caller.
type Dispatcher struct {
	sender       Sender
	recipient    string
	dashboardURL string
	timeout      time.Duration
	logger       logging.Logger
	wg           sync.WaitGroup
}

func NewDispatcher(sender Sender, recipient, dashboardURL string, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		sender:       sender,
		recipient:    recipient,
		dashboardURL: dashboardURL,
		timeout:      defaultSendTimeout,
		logger:       logger.With("module", "notify"),
	}
}

// WithTimeout sets the per-message send deadline.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

func (d *Dispatcher) ContactReceived(c *models.Contact) {
	html, err := contactBody(c, d.dashboardURL)
	if err != nil {
		d.logger.Error(context.Background(), "render contact notification", "id", c.ID, "error", err)
		return
	}
	d.dispatch(contactSubject, html, "contact", c.ID)
}

func (d *Dispatcher) SponsorReceived(s *models.Sponsor) {
	html, err := sponsorBody(s, d.dashboardURL)
	if err != nil {
		d.logger.Error(context.Background(), "render sponsor notification", "id", s.ID, "error", err)
		return
	}
	d.dispatch(sponsorSubject, html, "sponsor", s.ID)
}

func (d *Dispatcher) dispatch(subject, html, kind, id string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, subject, html, d.recipient); err != nil {
			d.logger.Warn(ctx, "notification failed", "kind", kind, "id", id, "error", err)
			return
		}
		d.logger.Debug(ctx, "notification sent", "kind", kind, "id", id)
	}()
}

// Wait blocks until in-flight notifications finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
