package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("inventory request not found")
	// ErrStaleLifecycle is returned when the stored lifecycle no longer matches the expected one.
	ErrStaleLifecycle = errors.New("inventory request lifecycle changed concurrently")
)

// ListFilter narrows a snapshot read. Zero values mean "no restriction".
type ListFilter struct {
	RestaurantID string
	Statuses     []domain.Status
}

// Repository persists inventory requests.
type Repository interface {
	Create(ctx context.Context, req *domain.InventoryRequest) (*domain.InventoryRequest, error)
	GetByID(ctx context.Context, id string) (*domain.InventoryRequest, error)
	// List returns requests in creation order.
	List(ctx context.Context, filter ListFilter) ([]*domain.InventoryRequest, error)
	// UpdateLifecycle stores next only when the persisted lifecycle still equals expected.
	UpdateLifecycle(ctx context.Context, id string, expected, next domain.Lifecycle) (*domain.InventoryRequest, error)
}
