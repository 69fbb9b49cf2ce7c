package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

const (
	// MarkDispatchedActivityName persists the dispatch transition of an accepted request.
	MarkDispatchedActivityName = "orders.activities.MarkDispatched"
	// NotifyDriversActivityName sends the dispatch message to every driver.
	NotifyDriversActivityName = "orders.activities.NotifyDrivers"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidTransition = "InvalidTransition"
	ErrTypeNotFound          = "NotFound"
	ErrTypeInvalidInput      = "InvalidInput"
	ErrTypePersistence       = "Persistence"
)

// DispatchInput identifies the request to dispatch.
type DispatchInput struct {
	RequestID string
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// MarkDispatched moves the request to the dispatched state. Lifecycle violations are not retried.
// A retry that finds the request already dispatched returns the stored request.
func (a *Activities) MarkDispatched(ctx context.Context, input DispatchInput) (*domain.InventoryRequest, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("mark dispatched activity not initialized", "requestId", input.RequestID)
		return nil, errors.New("mark dispatched activity not initialized")
	}
	attempt := activity.GetInfo(ctx).Attempt
	logger.Info("MarkDispatched activity started", "requestId", input.RequestID, "attempt", attempt)
	req, err := a.service.MarkDispatched(ctx, input.RequestID)
	if err != nil && attempt > 1 && errors.Is(err, ordersapp.ErrInvalidTransition) {
		if stored, getErr := a.service.Get(ctx, input.RequestID); getErr == nil && stored.Lifecycle.State == domain.StateDispatched {
			logger.Warn("MarkDispatched found transition committed by an earlier attempt", "requestId", input.RequestID, "attempt", attempt)
			return stored, nil
		}
	}
	if err != nil {
		logger.Error("MarkDispatched activity failed", "requestId", input.RequestID, "error", err)
		return nil, classify(err)
	}
	logger.Info("MarkDispatched activity completed", "requestId", req.ID)
	return req, nil
}

// NotifyDrivers notifies every driver about a dispatched request. Per-driver failures
// are part of the report and never fail the activity, so drivers are not messaged twice.
func (a *Activities) NotifyDrivers(ctx context.Context, req *domain.InventoryRequest) (*ordersports.DispatchReport, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("notify drivers activity not initialized")
	}
	if req == nil {
		return nil, temporal.NewNonRetryableApplicationError("request is required", ErrTypeInvalidInput, nil)
	}
	logger.Info("NotifyDrivers activity started", "requestId", req.ID)
	report := a.service.NotifyDrivers(ctx, req)
	logger.Info("NotifyDrivers activity completed",
		"requestId", req.ID,
		"notified", len(report.Notified),
		"failed", len(report.Failures))
	return report, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidTransition):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidTransition, err)
	case errors.Is(err, ordersapp.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersapp.ErrPersistence):
		return temporal.NewApplicationErrorWithCause(err.Error(), ErrTypePersistence, err)
	default:
		return err
	}
}
