package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

// DefaultTotalsPeriod is the window of chain totals when none is requested.
const DefaultTotalsPeriod = domain.PeriodBiWeekly

// Service assembles billing views from order and cost snapshots. It owns no order state.
type Service struct {
	orders   ports.OrderSource
	costs    ports.CostSource
	settings ports.SettingsRepository
	invoices ports.InvoiceRepository
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the default reference date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the billing service with its dependencies.
func NewService(orders ports.OrderSource, costs ports.CostSource, settings ports.SettingsRepository, invoices ports.InvoiceRepository, opts ...Option) *Service {
	s := &Service{orders: orders, costs: costs, settings: settings, invoices: invoices, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Statement builds a location's statement. Lines without cost data are priced at zero and
// listed in Statement.Missing rather than failing the call.
func (s *Service) Statement(ctx context.Context, query ports.StatementQuery) (*ports.StatementView, error) {
	restaurantID := strings.TrimSpace(query.RestaurantID)
	if restaurantID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidRestaurantID)
	}
	if query.Month < 0 || query.Month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidInput, query.Month)
	}
	var period domain.FilterPeriod
	if strings.TrimSpace(query.Period) != "" {
		p, err := domain.ParseFilterPeriod(query.Period)
		if err != nil {
			return nil, mapError(err)
		}
		period = p
	}

	orders, err := s.orders.BillableOrders(ctx, ports.OrderQuery{RestaurantID: restaurantID})
	if err != nil {
		return nil, mapError(err)
	}
	costs, err := s.costs.Costs(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	orders = domain.FilterByMonthYear(orders, query.Month, query.Year, query.Location)
	if period != "" {
		orders, err = domain.FilterByPeriodStart(orders, period, s.reference(query.Reference))
		if err != nil {
			return nil, mapError(err)
		}
	}

	invoices, err := s.invoices.List(ctx, restaurantID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.StatementView{
		Statement: domain.BuildStatement(restaurantID, orders, costs),
		Invoices:  invoices,
	}, nil
}

// Totals sums billable orders per restaurant since the period cutoff.
func (s *Service) Totals(ctx context.Context, query ports.TotalsQuery) (*ports.ChainTotals, error) {
	period := DefaultTotalsPeriod
	if strings.TrimSpace(query.Period) != "" {
		p, err := domain.ParseFilterPeriod(query.Period)
		if err != nil {
			return nil, mapError(err)
		}
		period = p
	}
	ref := s.reference(query.Reference)
	cutoff, err := period.Cutoff(ref)
	if err != nil {
		return nil, mapError(err)
	}

	orders, err := s.orders.BillableOrders(ctx, ports.OrderQuery{})
	if err != nil {
		return nil, mapError(err)
	}
	costs, err := s.costs.Costs(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	orders, err = domain.FilterByPeriodStart(orders, period, ref)
	if err != nil {
		return nil, mapError(err)
	}

	restaurants := domain.TotalsByRestaurant(orders, costs)
	total := domain.PeriodSubtotal(orders, costs)
	return &ports.ChainTotals{
		Period:      period,
		Cutoff:      cutoff,
		Restaurants: restaurants,
		Total:       total,
	}, nil
}

func (s *Service) Settings(ctx context.Context, restaurantID string) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx, strings.TrimSpace(restaurantID))
	if err != nil {
		return nil, mapError(err)
	}
	return settings, nil
}

// SaveSettings upserts the invoice email and frequency of a restaurant.
func (s *Service) SaveSettings(ctx context.Context, input ports.SettingsInput) (*domain.Settings, error) {
	settings, err := domain.NewSettings(input.RestaurantID, input.Email, input.Frequency)
	if err != nil {
		return nil, mapError(err)
	}
	settings.UpdatedAt = s.now().UTC()
	saved, err := s.settings.Save(ctx, settings)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Invoices(ctx context.Context, restaurantID string) ([]*domain.Invoice, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidRestaurantID)
	}
	invoices, err := s.invoices.List(ctx, restaurantID)
	if err != nil {
		return nil, mapError(err)
	}
	return invoices, nil
}

func (s *Service) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		return s.now()
	}
	return ref
}

var _ ports.Service = (*Service)(nil)
