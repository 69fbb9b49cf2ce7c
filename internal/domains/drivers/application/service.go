package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
)

var (
	ErrInvalidInput = errors.New("invalid driver input")
	ErrNotFound     = ports.ErrNotFound
)

// Service orchestrates the driver roster.
type Service struct {
	repo ports.Repository
}

// NewService wires the roster service.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input ports.DriverInput) (*domain.Driver, error) {
	d := &domain.Driver{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	apply(d, input)
	if err := d.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, d)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id string, input ports.DriverInput) (*domain.Driver, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	apply(d, input)
	if err := d.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, d)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Driver, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Driver, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapError(s.repo.Delete(ctx, id))
}

func apply(d *domain.Driver, input ports.DriverInput) {
	d.Name = strings.TrimSpace(input.Name)
	d.Schedule = strings.TrimSpace(input.Schedule)
	d.Capacity = input.Capacity
	d.Phone = strings.TrimSpace(input.Phone)
	d.Email = strings.TrimSpace(input.Email)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) || errors.Is(err, domain.ErrInvalidPhone) || errors.Is(err, domain.ErrInvalidCapacity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
