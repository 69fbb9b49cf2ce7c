package sources

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

// CostLister is the slice of the catalog service billing needs.
type CostLister interface {
	Costs(ctx context.Context) (map[string]decimal.Decimal, error)
}

var _ ports.CostSource = (*Catalog)(nil)

// Catalog prices orders from the item catalog.
type Catalog struct {
	items CostLister
}

func NewCatalog(items CostLister) *Catalog {
	return &Catalog{items: items}
}

func (c *Catalog) Costs(ctx context.Context) (domain.CostTable, error) {
	costs, err := c.items.Costs(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CostTable(costs), nil
}
