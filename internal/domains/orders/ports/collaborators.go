package ports

import (
	"context"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
)

// Notifier delivers a text message to a destination contact (SMS number).
type Notifier interface {
	Notify(ctx context.Context, destination, message string) error
}

// DriverContact is the slice of a driver the dispatch flow needs.
type DriverContact struct {
	DriverID string
	Name     string
	Phone    string
}

// DriverDirectory lists the drivers to call on dispatch.
type DriverDirectory interface {
	Contacts(ctx context.Context) ([]DriverContact, error)
}

// InsertHandler receives newly inserted requests from a change feed.
type InsertHandler func(ctx context.Context, req *domain.InventoryRequest) error

// Subscription is the handle returned by a change feed; Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe() error
}

// ChangeFeed delivers insert events for the inventory_requests collection.
type ChangeFeed interface {
	Subscribe(ctx context.Context, handler InsertHandler) (Subscription, error)
}

// EventPublisher fans lifecycle and alert events out to interested listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}
