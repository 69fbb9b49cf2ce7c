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

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

const tracerName = "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/observability/service"

// Service decorates the billing application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Statement(ctx context.Context, query ports.StatementQuery) (*ports.StatementView, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Statement", trace.WithAttributes(
		attribute.String("restaurant.id", query.RestaurantID),
		attribute.String("billing.period", query.Period)))
	defer span.End()

	view, err := s.inner.Statement(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build statement", slog.String("restaurant.id", query.RestaurantID))
	}
	s.observeMissing(ctx, span, view.Statement.Missing, query.RestaurantID)
	s.metrics.statements.add(ctx, 1)
	span.SetAttributes(attribute.String("billing.total", view.Statement.Total.StringFixed(2)))
	return view, nil
}

func (s *Service) Totals(ctx context.Context, query ports.TotalsQuery) (*ports.ChainTotals, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Totals", trace.WithAttributes(attribute.String("billing.period", query.Period)))
	defer span.End()

	totals, err := s.inner.Totals(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute chain totals", slog.String("period", query.Period))
	}
	s.observeMissing(ctx, span, totals.Total.Missing, "")
	span.SetAttributes(attribute.Int("billing.restaurants", len(totals.Restaurants)))
	return totals, nil
}

func (s *Service) Settings(ctx context.Context, restaurantID string) (*domain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Settings", trace.WithAttributes(attribute.String("restaurant.id", restaurantID)))
	defer span.End()

	settings, err := s.inner.Settings(ctx, restaurantID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load billing settings", slog.String("restaurant.id", restaurantID))
	}
	return settings, nil
}

func (s *Service) SaveSettings(ctx context.Context, input ports.SettingsInput) (*domain.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "Service.SaveSettings", trace.WithAttributes(attribute.String("restaurant.id", input.RestaurantID)))
	defer span.End()

	settings, err := s.inner.SaveSettings(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to save billing settings", slog.String("restaurant.id", input.RestaurantID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "billing settings saved",
		slog.String("restaurant.id", settings.RestaurantID),
		slog.String("frequency", string(settings.Frequency)))
	return settings, nil
}

func (s *Service) Invoices(ctx context.Context, restaurantID string) ([]*domain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Invoices", trace.WithAttributes(attribute.String("restaurant.id", restaurantID)))
	defer span.End()

	invoices, err := s.inner.Invoices(ctx, restaurantID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list invoices", slog.String("restaurant.id", restaurantID))
	}
	span.SetAttributes(attribute.Int("billing.invoices", len(invoices)))
	return invoices, nil
}

func (s *Service) observeMissing(ctx context.Context, span trace.Span, missing []domain.MissingCostData, restaurantID string) {
	if len(missing) == 0 {
		return
	}
	span.SetAttributes(attribute.Int("billing.missing_cost_lines", len(missing)))
	s.metrics.missingCost.add(ctx, int64(len(missing)))
	items := make([]string, 0, len(missing))
	for _, m := range missing {
		items = append(items, m.ItemID)
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "orders priced without cost data",
		slog.String("restaurant.id", restaurantID),
		slog.Any("items", items))
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type counter struct {
	c metric.Int64Counter
}

func (c counter) add(ctx context.Context, n int64) {
	if c.c == nil {
		return
	}
	c.c.Add(ctx, n)
}

type serviceMetrics struct {
	statements  counter
	missingCost counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	statements, _ := m.Int64Counter("billing.service.statements", metric.WithDescription("Number of statements built"))
	missing, _ := m.Int64Counter("billing.service.missing_cost_lines", metric.WithDescription("Order lines priced without cost data"))
	return serviceMetrics{statements: counter{statements}, missingCost: counter{missing}}
}

var _ ports.Service = (*Service)(nil)
