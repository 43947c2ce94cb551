package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/archive"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/repositories/repomanager"
)

// Kind names a submission collection.
type Kind string

const (
	KindContacts Kind = "contacts"
	KindSponsors Kind = "sponsors"
)

// Notifier is told about every stored submission. Implementations must not
// block the caller.
type Notifier interface {
	ContactReceived(c *models.Contact)
	SponsorReceived(s *models.Sponsor)
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

type SponsorInput struct {
	Name        string
	Email       string
	Phone       string
	SupportType string
	Message     string
}

// Export describes an uploaded archive of a submission collection.
type Export struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	archiver    archive.Archiver
	logger      logging.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService. archiver may be nil,
// in which case exports fail with common.ErrStorageDisabled.
func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager, notifier Notifier,
	archiver archive.Archiver, logger logging.Logger) *SubmissionService {
	return &SubmissionService{
		db:          db,
		repomanager: m,
		notifier:    notifier,
		archiver:    archiver,
		logger:      logger.With("module", "submissions"),
		now:         time.Now,
	}
}

func (s *SubmissionService) CreateContact(ctx context.Context, in ContactInput) (*models.Contact, error) {
	if anyBlank(in.Name, in.Email, in.Message) {
		return nil, common.NewValidationError("All fields are required")
	}
	email := strings.TrimSpace(in.Email)
	if !validEmail(email) {
		return nil, common.NewValidationError("Invalid email format")
	}

	c, err := s.repomanager.Contacts(s.db).Insert(ctx, &models.Contact{
		FullName: strings.TrimSpace(in.Name),
		Email:    email,
		Message:  strings.TrimSpace(in.Message),
	})
	if err != nil {
		return nil, failure("insert contact", err)
	}

	s.logger.Info(ctx, "contact saved", "id", c.ID)
	s.notifier.ContactReceived(c)
	return c, nil
}

func (s *SubmissionService) CreateSponsor(ctx context.Context, in SponsorInput) (*models.Sponsor, error) {
	if anyBlank(in.Name, in.Email, in.SupportType, in.Message) {
		return nil, common.NewValidationError("Required fields missing")
	}

	sp := &models.Sponsor{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		SupportType: strings.TrimSpace(in.SupportType),
		Message:     strings.TrimSpace(in.Message),
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		sp.Phone = &phone
	}

	sp, err := s.repomanager.Sponsors(s.db).Insert(ctx, sp)
	if err != nil {
		return nil, failure("insert sponsor", err)
	}

	s.logger.Info(ctx, "sponsor request saved", "id", sp.ID)
	s.notifier.SponsorReceived(sp)
	return sp, nil
}

func (s *SubmissionService) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	items, err := s.repomanager.Contacts(s.db).ListAll(ctx)
	if err != nil {
		return nil, failure("list contacts", err)
	}
	return items, nil
}

func (s *SubmissionService) ListSponsors(ctx context.Context) ([]*models.Sponsor, error) {
	items, err := s.repomanager.Sponsors(s.db).ListAll(ctx)
	if err != nil {
		return nil, failure("list sponsors", err)
	}
	return items, nil
}

// MarkRead flags one submission as read. A missing id is common.ErrorNotFound.
func (s *SubmissionService) MarkRead(ctx context.Context, kind Kind, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindContacts:
		err = s.repomanager.Contacts(s.db).MarkRead(ctx, id)
	case KindSponsors:
		err = s.repomanager.Sponsors(s.db).MarkRead(ctx, id)
	default:
		return fmt.Errorf("unknown kind %q: %w", kind, common.ErrInvalidInput)
	}
	return s.storeResult("mark read", err)
}

// Delete removes one submission. A missing id is common.ErrorNotFound.
func (s *SubmissionService) Delete(ctx context.Context, kind Kind, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindContacts:
		err = s.repomanager.Contacts(s.db).Delete(ctx, id)
	case KindSponsors:
		err = s.repomanager.Sponsors(s.db).Delete(ctx, id)
	default:
		return fmt.Errorf("unknown kind %q: %w", kind, common.ErrInvalidInput)
	}
	return s.storeResult("delete", err)
}

// Export writes the whole collection as a JSON array to object storage and
// returns a presigned download URL.
func (s *SubmissionService) Export(ctx context.Context, kind Kind) (*Export, error) {
	if s.archiver == nil {
		return nil, common.ErrStorageDisabled
	}

	var (
		payload any
		count   int
	)
	switch kind {
	case KindContacts:
		items, err := s.ListContacts(ctx)
		if err != nil {
			return nil, err
		}
		payload, count = items, len(items)
	case KindSponsors:
		items, err := s.ListSponsors(ctx)
		if err != nil {
			return nil, err
		}
		payload, count = items, len(items)
	default:
		return nil, fmt.Errorf("unknown kind %q: %w", kind, common.ErrInvalidInput)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, failure("encode export", err)
	}

	key := s.exportKey(kind)
	url, err := s.archiver.Put(ctx, key, body, "application/json")
	if err != nil {
		return nil, failure("upload export", err)
	}

	s.logger.Info(ctx, "export uploaded", "kind", kind, "key", key, "count", count)
	return &Export{Key: key, URL: url, Count: count}, nil
}

func (s *SubmissionService) exportKey(kind Kind) string {
	d := s.now().UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%v.json", kind, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *SubmissionService) storeResult(op string, err error) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return failure(op, err)
}
