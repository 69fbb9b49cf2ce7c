package sources

import (
	"context"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
	ordersdomain "github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var _ ports.OrderSource = (*Orders)(nil)

// Orders reads billable orders from the inventory request store.
type Orders struct {
	repo                ordersports.Repository
	requireConfirmation bool
}

// NewOrders builds the source. With requireConfirmation only confirmed requests are billed.
func NewOrders(repo ordersports.Repository, requireConfirmation bool) *Orders {
	return &Orders{repo: repo, requireConfirmation: requireConfirmation}
}

func (o *Orders) BillableOrders(ctx context.Context, query ports.OrderQuery) ([]domain.Order, error) {
	requests, err := o.repo.List(ctx, ordersports.ListFilter{
		RestaurantID: query.RestaurantID,
		Statuses:     []ordersdomain.Status{ordersdomain.StatusAccepted},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(requests))
	for _, req := range requests {
		if !req.Lifecycle.State.Accepted() {
			continue
		}
		if o.requireConfirmation && req.Lifecycle.Confirmation != ordersdomain.ConfirmationConfirmed {
			continue
		}
		out = append(out, domain.Order{
			ID:            req.ID,
			RestaurantID:  req.RestaurantID,
			ItemID:        req.ItemID,
			Quantity:      req.Quantity,
			BillingPeriod: req.BillingPeriod,
			CreatedAt:     req.CreatedAt,
		})
	}
	return out, nil
}
