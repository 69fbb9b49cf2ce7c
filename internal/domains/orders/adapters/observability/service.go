package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Submit(ctx context.Context, input ports.SubmitRequestInput) (*domain.InventoryRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.Submit",
		attribute.String("restaurant.id", input.RestaurantID),
		attribute.String("item.id", input.ItemID))
	defer span.End()

	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit inventory request", slog.String("restaurant.id", input.RestaurantID))
	}
	span.SetAttributes(attribute.String("request.id", result.ID))
	s.metrics.recordSubmitted(ctx, result.RestaurantID)
	s.logInfo(ctx, "inventory request submitted", slog.String("request.id", result.ID), slog.String("restaurant.id", result.RestaurantID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("request.id", id))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get inventory request", slog.String("request.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.InventoryRequest, error) {
	ctx, span := s.startSpan(ctx, "Service.List",
		attribute.String("view", string(query.View)),
		attribute.String("restaurant.id", query.RestaurantID))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list inventory requests", slog.String("view", string(query.View)))
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result)))
	return result, nil
}

func (s *Service) Accept(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, "Service.Accept", id, s.inner.Accept)
}

func (s *Service) Reject(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, "Service.Reject", id, s.inner.Reject)
}

func (s *Service) Confirm(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, "Service.Confirm", id, s.inner.Confirm)
}

func (s *Service) MarkDispatched(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, "Service.MarkDispatched", id, s.inner.MarkDispatched)
}

func (s *Service) NotifyDrivers(ctx context.Context, req *domain.InventoryRequest) *ports.DispatchReport {
	var id string
	if req != nil {
		id = req.ID
	}
	ctx, span := s.startSpan(ctx, "Service.NotifyDrivers", attribute.String("request.id", id))
	defer span.End()

	report := s.inner.NotifyDrivers(ctx, req)
	s.recordReport(ctx, span, report)
	return report
}

func (s *Service) Dispatch(ctx context.Context, id string) (*ports.DispatchReport, error) {
	ctx, span := s.startSpan(ctx, "Service.Dispatch", attribute.String("request.id", id))
	defer span.End()

	s.logInfo(ctx, "dispatching inventory request", slog.String("request.id", id))
	report, err := s.inner.Dispatch(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to dispatch inventory request", slog.String("request.id", id))
	}
	s.metrics.recordTransition(ctx, domain.StateDispatched)
	s.recordReport(ctx, span, report)
	return report, nil
}

func (s *Service) OnExternalInsert(ctx context.Context, req *domain.InventoryRequest) (*ports.Alert, error) {
	ctx, span := s.startSpan(ctx, "Service.OnExternalInsert")
	defer span.End()

	alert, err := s.inner.OnExternalInsert(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to raise new order alert")
	}
	s.metrics.recordAlert(ctx)
	s.logInfo(ctx, "new order alert raised", slog.String("request.id", alert.RequestID), slog.Time("expires_at", alert.ExpiresAt))
	return alert, nil
}

func (s *Service) ActiveAlerts() []ports.Alert {
	return s.inner.ActiveAlerts()
}

func (s *Service) DismissAlert(ctx context.Context, requestID string) bool {
	ctx, span := s.startSpan(ctx, "Service.DismissAlert", attribute.String("request.id", requestID))
	defer span.End()

	dismissed := s.inner.DismissAlert(ctx, requestID)
	span.SetAttributes(attribute.Bool("alert.dismissed", dismissed))
	return dismissed
}

func (s *Service) transition(ctx context.Context, name, id string, fn func(context.Context, string) (*domain.InventoryRequest, error)) (*domain.InventoryRequest, error) {
	ctx, span := s.startSpan(ctx, name, attribute.String("request.id", id))
	defer span.End()

	result, err := fn(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "inventory request transition failed", slog.String("operation", name), slog.String("request.id", id))
	}
	span.SetAttributes(attribute.String("request.state", result.Lifecycle.State.String()))
	s.metrics.recordTransition(ctx, result.Lifecycle.State)
	s.logInfo(ctx, "inventory request transitioned",
		slog.String("operation", name),
		slog.String("request.id", id),
		slog.String("state", result.Lifecycle.State.String()),
		slog.String("confirmation", string(result.Lifecycle.Confirmation)))
	return result, nil
}

func (s *Service) recordReport(ctx context.Context, span trace.Span, report *ports.DispatchReport) {
	if report == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("dispatch.notified", len(report.Notified)),
		attribute.Int("dispatch.failures", len(report.Failures)))
	s.metrics.recordNotifications(ctx, len(report.Notified), len(report.Failures))
	for _, f := range report.Failures {
		s.logError(ctx, "driver notification failed", f, slog.String("driver.id", f.DriverID))
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submitted     metric.Int64Counter
	transitions   metric.Int64Counter
	alerts        metric.Int64Counter
	notifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("orders.service.submitted", metric.WithDescription("Number of inventory requests submitted"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of persisted lifecycle transitions"))
	alerts, _ := m.Int64Counter("orders.service.alerts", metric.WithDescription("Number of new order alerts raised"))
	notifications, _ := m.Int64Counter("orders.service.notifications", metric.WithDescription("Driver notifications by outcome"))
	return serviceMetrics{
		submitted:     submitted,
		transitions:   transitions,
		alerts:        alerts,
		notifications: notifications,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, restaurantID string) {
	addCounter(ctx, m.submitted, 1, attribute.String("restaurant.id", restaurantID))
}

func (m serviceMetrics) recordTransition(ctx context.Context, to domain.State) {
	addCounter(ctx, m.transitions, 1, attribute.String("request.state", to.String()))
}

func (m serviceMetrics) recordAlert(ctx context.Context) {
	addCounter(ctx, m.alerts, 1)
}

func (m serviceMetrics) recordNotifications(ctx context.Context, sent, failed int) {
	addCounter(ctx, m.notifications, int64(sent), attribute.String("outcome", "sent"))
	addCounter(ctx, m.notifications, int64(failed), attribute.String("outcome", "failed"))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
