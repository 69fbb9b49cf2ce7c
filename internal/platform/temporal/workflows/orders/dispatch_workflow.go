package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/activities/orders"
	"github.com/Apurer/restaurant-backoffice/internal/platform/temporal/sequences"
)

const (
	// DispatchWorkflowName is the public identifier for registering the workflow.
	DispatchWorkflowName = "orders.workflows.Dispatch"
	// DispatchTaskQueue is the queue consumed by the worker processing dispatch workflows.
	DispatchTaskQueue = "ORDER_DISPATCH"
)

// DispatchWorkflowInput captures the request to dispatch.
type DispatchWorkflowInput struct {
	RequestID string
	TraceID   string
}

// DispatchWorkflow marks a request dispatched and notifies every driver.
func DispatchWorkflow(ctx workflow.Context, input DispatchWorkflowInput) (*ordersports.DispatchReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("DispatchWorkflow started", withTraceID(input.TraceID, "requestId", input.RequestID)...)
	report, err := sequences.RunDispatchSequence(ctx, orderactivities.DispatchInput{RequestID: input.RequestID})
	if err != nil {
		logger.Error("DispatchWorkflow failed", withTraceID(input.TraceID, "requestId", input.RequestID, "error", err)...)
		return report, err
	}
	logger.Info("DispatchWorkflow completed", withTraceID(input.TraceID, "requestId", input.RequestID, "failures", len(report.Failures))...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
