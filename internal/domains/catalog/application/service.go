package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
	cost, err := parseCost(input.CostPerUnit)
	if err != nil {
		return nil, err
	}
	item, err := domain.NewItem(input.Name, cost, input.Unit)
	if err != nil {
		return nil, mapError(err)
	}
	item.ID = uuid.NewString()
	item.CreatedAt = s.now().UTC()
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id string, input ports.ItemInput) (*domain.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	cost, err := parseCost(input.CostPerUnit)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(input.Name)
	existing.CostPerUnit = cost
	existing.Unit = strings.TrimSpace(input.Unit)
	if err := existing.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// SetCutOff configures the weekly ordering deadline of an item.
func (s *Service) SetCutOff(ctx context.Context, id, day, at string) (*domain.Item, error) {
	cutOff, err := domain.ParseCutOff(day, at)
	if err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	existing.CutOff = cutOff
	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapError(s.repo.Delete(ctx, id))
}

func (s *Service) Costs(ctx context.Context) (map[string]decimal.Decimal, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	costs := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		costs[item.ID] = item.CostPerUnit
	}
	return costs, nil
}

func parseCost(raw string) (decimal.Decimal, error) {
	cost, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w: %q", ErrInvalidInput, domain.ErrInvalidCost, raw)
	}
	return cost, nil
}

var _ ports.Service = (*Service)(nil)
