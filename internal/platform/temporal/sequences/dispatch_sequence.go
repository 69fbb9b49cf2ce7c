package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/activities/orders"
)

// RunDispatchSequence persists the dispatch transition and then notifies drivers.
// Notification only starts once the transition is durable.
func RunDispatchSequence(ctx workflow.Context, input orderactivities.DispatchInput) (*ordersports.DispatchReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("dispatch sequence started", "requestId", input.RequestID)
	markOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	notifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var req domain.InventoryRequest
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, markOptions), orderactivities.MarkDispatchedActivityName, input).Get(ctx, &req)
	if err != nil {
		logger.Error("dispatch sequence failed to persist transition", "requestId", input.RequestID, "error", err)
		return nil, err
	}
	logger.Info("dispatch sequence persisted", "requestId", req.ID)

	var report ordersports.DispatchReport
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, notifyOptions), orderactivities.NotifyDriversActivityName, &req).Get(ctx, &report); err != nil {
		logger.Error("dispatch sequence notification failed", "requestId", input.RequestID, "error", err)
		return &ordersports.DispatchReport{Request: &req}, err
	}
	if report.Request == nil {
		report.Request = &req
	}
	logger.Info("dispatch sequence completed",
		"requestId", req.ID,
		"notified", len(report.Notified),
		"failed", len(report.Failures))
	return &report, nil
}
