package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.DispatchOrchestrator = (*TemporalDispatchWorkflows)(nil)
	_ ports.DispatchOrchestrator = (*InlineDispatchWorkflows)(nil)
)

// TemporalDispatchWorkflows starts dispatch workflows on a Temporal cluster.
type TemporalDispatchWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalDispatchWorkflows wires a Temporal client into the orchestrator.
func NewTemporalDispatchWorkflows(c client.Client) *TemporalDispatchWorkflows {
	return &TemporalDispatchWorkflows{client: c, taskQueue: orderworkflows.DispatchTaskQueue}
}

// Dispatch starts the dispatch workflow and waits for its report. The workflow id is derived
// from the request id, so a second dispatch while one is running attaches to the running one.
func (o *TemporalDispatchWorkflows) Dispatch(ctx context.Context, id string) (*ports.DispatchReport, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal dispatch workflows not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: request id is required", application.ErrInvalidInput)
	}
	workflowID := DispatchWorkflowID(id)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.DispatchWorkflow,
		orderworkflows.DispatchWorkflowInput{RequestID: id, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var report ports.DispatchReport
	if err := run.Get(ctx, &report); err != nil {
		return nil, mapWorkflowError(err)
	}
	return &report, nil
}

// InlineDispatchWorkflows executes the service directly without Temporal.
type InlineDispatchWorkflows struct {
	service ports.Service
}

// NewInlineDispatchWorkflows wraps the orders service for synchronous execution.
func NewInlineDispatchWorkflows(service ports.Service) *InlineDispatchWorkflows {
	return &InlineDispatchWorkflows{service: service}
}

func (o *InlineDispatchWorkflows) Dispatch(ctx context.Context, id string) (*ports.DispatchReport, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline dispatch workflows not configured")
	}
	return o.service.Dispatch(ctx, id)
}

// DispatchWorkflowID is the deterministic workflow id of a request's dispatch.
func DispatchWorkflowID(requestID string) string {
	return "order-dispatch-" + requestID
}

func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeInvalidTransition:
		return fmt.Errorf("%w: %s", application.ErrInvalidTransition, appErr.Error())
	case orderactivities.ErrTypeNotFound:
		return fmt.Errorf("%w: %s", application.ErrNotFound, appErr.Error())
	case orderactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Error())
	case orderactivities.ErrTypePersistence:
		return fmt.Errorf("%w: %s", application.ErrPersistence, appErr.Error())
	default:
		return err
	}
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
