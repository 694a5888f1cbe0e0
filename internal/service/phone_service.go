package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ougadgets/internal/catalog"
	"ougadgets/internal/events"
	"ougadgets/internal/model"
	"ougadgets/internal/repository"

	"github.com/google/uuid"
)

// PhoneService defines operations for the catalog
type PhoneService interface {
	ListPhones(ctx context.Context, filter *catalog.FilterState) ([]model.Phone, error)
	GetPhone(ctx context.Context, id string) (*model.Phone, error)
	CreatePhone(ctx context.Context, req model.CreatePhoneRequest) (*model.Phone, error)
	UpdatePhone(ctx context.Context, id string, req model.UpdatePhoneRequest) (*model.Phone, error)
	DeletePhone(ctx context.Context, id string) error

	// Admin methods
	ImportCSV(ctx context.Context, r io.Reader) ([]model.Phone, error)
	ExportCSV(ctx context.Context) (*bytes.Buffer, error)
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type phoneService struct {
	repo      repository.PhoneRepository
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// NewPhoneService creates a new PhoneService
func NewPhoneService(repo repository.PhoneRepository, publisher events.Publisher) PhoneService {
	return &phoneService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ListPhones returns the catalog newest first, optionally filtered.
func (s *phoneService) ListPhones(ctx context.Context, filter *catalog.FilterState) ([]model.Phone, error) {
	phones, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	if filter == nil {
		return phones, nil
	}
	return catalog.Apply(phones, *filter), nil
}

func (s *phoneService) GetPhone(ctx context.Context, id string) (*model.Phone, error) {
	phone, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get phone: %w", err)
	}
	if phone == nil {
		return nil, ErrPhoneNotFound
	}
	return phone, nil
}

func (s *phoneService) CreatePhone(ctx context.Context, req model.CreatePhoneRequest) (*model.Phone, error) {
	phone := req.ToPhone()
	phone.ID = s.newID()
	phone.AddedDate = s.now().UTC()

	if err := s.repo.Create(ctx, &phone); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("failed to create phone in repo: %w", err)
	}

	publish(ctx, s.publisher, events.Event{Type: events.PhoneCreated, PhoneID: phone.ID})
	return &phone, nil
}

func (s *phoneService) UpdatePhone(ctx context.Context, id string, req model.UpdatePhoneRequest) (*model.Phone, error) {
	phone, err := s.GetPhone(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(phone)
	if err := s.repo.Update(ctx, phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhoneNotFound
		}
		return nil, fmt.Errorf("failed to update phone in repo: %w", err)
	}

	publish(ctx, s.publisher, events.Event{Type: events.PhoneUpdated, PhoneID: phone.ID})
	return phone, nil
}

func (s *phoneService) DeletePhone(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhoneNotFound
		}
		return fmt.Errorf("failed to delete phone in repo: %w", err)
	}

	publish(ctx, s.publisher, events.Event{Type: events.PhoneDeleted, PhoneID: id})
	return nil
}

// ImportCSV validates every row before inserting any. A *catalog.CSVError
// is returned unchanged so callers can report its line.
func (s *phoneService) ImportCSV(ctx context.Context, r io.Reader) ([]model.Phone, error) {
	phones, err := catalog.ParseCSV(r, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateMany(ctx, phones); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrPhoneExists, err)
		}
		return nil, fmt.Errorf("failed to import phones: %w", err)
	}

	publish(ctx, s.publisher, events.Event{Type: events.PhonesImported, Count: len(phones)})
	return phones, nil
}

func (s *phoneService) ExportCSV(ctx context.Context) (*bytes.Buffer, error) {
	phones, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get phones for export: %w", err)
	}

	b := &bytes.Buffer{}
	if err := catalog.WriteCSV(b, phones); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return b, nil
}

func (s *phoneService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
