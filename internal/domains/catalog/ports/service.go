package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
)

// ItemInput carries the editable item fields. CostPerUnit is a decimal string.
type ItemInput struct {
	Name        string
	CostPerUnit string
	Unit        string
}

// Service exposes catalog management use cases.
type Service interface {
	Create(ctx context.Context, input ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id string, input ItemInput) (*domain.Item, error)
	SetCutOff(ctx context.Context, id, day, at string) (*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Delete(ctx context.Context, id string) error
	// Costs returns cost per unit keyed by item id.
	Costs(ctx context.Context) (map[string]decimal.Decimal, error)
}
