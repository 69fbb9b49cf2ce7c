package ports

import (
	"context"
	"time"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
)

// View selects one of the tracker's derived lists.
type View string

const (
	ViewAll              View = "all"
	ViewPending          View = "pending"
	ViewAwaitingDispatch View = "awaiting-dispatch"
	ViewHistorical       View = "historical"
)

// ListQuery describes a view request. Month/Year zero means "any"; Location defaults to time.Local.
type ListQuery struct {
	View         View
	RestaurantID string
	Month        time.Month
	Year         int
	Location     *time.Location
}

// SubmitRequestInput is the payload a location sends to request replenishment.
type SubmitRequestInput struct {
	RestaurantID  string
	ItemID        string
	Quantity      string
	Unit          string
	BillingPeriod string
	Timeline      string
	Notes         string
}

// NotificationFailure records one driver that could not be notified. Reason survives
// serialization through workflow payloads; Err is only set in-process.
type NotificationFailure struct {
	DriverID    string
	Destination string
	Reason      string
	Err         error `json:"-"`
}

func (f NotificationFailure) Error() string {
	if f.DriverID == "" {
		return "driver directory: " + f.Reason
	}
	return "notify driver " + f.DriverID + ": " + f.Reason
}

func (f NotificationFailure) Unwrap() error { return f.Err }

// DispatchReport summarizes a dispatch. The transition is authoritative regardless of Failures.
type DispatchReport struct {
	Request  *domain.InventoryRequest
	Notified []string
	Failures []NotificationFailure
}

// Alert is a transient new-order signal.
type Alert struct {
	RequestID string
	RaisedAt  time.Time
	ExpiresAt time.Time
}

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	Submit(ctx context.Context, input SubmitRequestInput) (*domain.InventoryRequest, error)
	Get(ctx context.Context, id string) (*domain.InventoryRequest, error)
	List(ctx context.Context, query ListQuery) ([]*domain.InventoryRequest, error)
	Accept(ctx context.Context, id string) (*domain.InventoryRequest, error)
	Reject(ctx context.Context, id string) (*domain.InventoryRequest, error)
	Confirm(ctx context.Context, id string) (*domain.InventoryRequest, error)
	// MarkDispatched persists the dispatch transition without notifying anyone.
	MarkDispatched(ctx context.Context, id string) (*domain.InventoryRequest, error)
	// NotifyDrivers sends the dispatch message to every known driver.
	NotifyDrivers(ctx context.Context, req *domain.InventoryRequest) *DispatchReport
	Dispatch(ctx context.Context, id string) (*DispatchReport, error)
	OnExternalInsert(ctx context.Context, req *domain.InventoryRequest) (*Alert, error)
	ActiveAlerts() []Alert
	DismissAlert(ctx context.Context, requestID string) bool
}

// DispatchOrchestrator runs the dispatch flow, durably or inline.
type DispatchOrchestrator interface {
	Dispatch(ctx context.Context, id string) (*DispatchReport, error)
}
