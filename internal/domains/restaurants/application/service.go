package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

var (
	ErrInvalidInput = errors.New("invalid restaurant input")
	ErrNotFound     = ports.ErrNotFound
)

// Service manages the restaurant directory.
type Service struct {
	repo ports.Repository
}

// NewService wires the directory service.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a restaurant. A ParentID must reference an existing restaurant.
func (s *Service) Create(ctx context.Context, input ports.RestaurantInput) (*domain.Restaurant, error) {
	r := &domain.Restaurant{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		ParentID:  strings.TrimSpace(input.ParentID),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if r.ParentID != "" {
		if _, err := s.repo.GetByID(ctx, r.ParentID); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s: %w", ErrInvalidInput, r.ParentID, err)
			}
			return nil, err
		}
	}
	return s.repo.Save(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, parentID string) ([]*domain.Restaurant, error) {
	return s.repo.List(ctx, strings.TrimSpace(parentID))
}

var _ ports.Service = (*Service)(nil)
