package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
)

var ErrNotFound = errors.New("billing record not found")

// OrderQuery narrows the billable order snapshot. Empty RestaurantID means every restaurant.
type OrderQuery struct {
	RestaurantID string
}

// OrderSource yields accepted orders eligible for billing, in creation order.
type OrderSource interface {
	BillableOrders(ctx context.Context, query OrderQuery) ([]domain.Order, error)
}

// CostSource yields the current cost per unit of every catalog item.
type CostSource interface {
	Costs(ctx context.Context) (domain.CostTable, error)
}

// SettingsRepository persists per-restaurant billing settings.
type SettingsRepository interface {
	Get(ctx context.Context, restaurantID string) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

// InvoiceRepository stores invoices produced by the invoicing collaborator.
type InvoiceRepository interface {
	// List returns a restaurant's invoices, newest first.
	List(ctx context.Context, restaurantID string) ([]*domain.Invoice, error)
	Save(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
}

// StatementQuery selects the orders of a location statement. Month/Year zero means any;
// an empty Period disables the period window.
type StatementQuery struct {
	RestaurantID string
	Month        time.Month
	Year         int
	Location     *time.Location
	Period       string
	Reference    time.Time
}

// StatementView is a statement plus the restaurant's invoices.
type StatementView struct {
	Statement domain.Statement
	Invoices  []*domain.Invoice
}

// TotalsQuery selects the window of chain-wide totals. Period defaults to bi-weekly.
type TotalsQuery struct {
	Period    string
	Reference time.Time
}

// ChainTotals is the per-restaurant billing overview.
type ChainTotals struct {
	Period      domain.FilterPeriod
	Cutoff      time.Time
	Restaurants []domain.RestaurantTotal
	Total       domain.Subtotal
}

// SettingsInput carries the editable billing settings.
type SettingsInput struct {
	RestaurantID string
	Email        string
	Frequency    string
}

// Service exposes billing use cases.
type Service interface {
	Statement(ctx context.Context, query StatementQuery) (*StatementView, error)
	Totals(ctx context.Context, query TotalsQuery) (*ChainTotals, error)
	Settings(ctx context.Context, restaurantID string) (*domain.Settings, error)
	SaveSettings(ctx context.Context, input SettingsInput) (*domain.Settings, error)
	Invoices(ctx context.Context, restaurantID string) ([]*domain.Invoice, error)
}
