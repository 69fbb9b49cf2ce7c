package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/memory"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

type fakeOrders struct {
	orders []domain.Order
	err    error
}

func (f fakeOrders) BillableOrders(_ context.Context, q ports.OrderQuery) ([]domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Order
	for _, o := range f.orders {
		if q.RestaurantID == "" || o.RestaurantID == q.RestaurantID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCosts domain.CostTable

func (f fakeCosts) Costs(context.Context) (domain.CostTable, error) { return domain.CostTable(f), nil }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var ref = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func newTestService(orders []domain.Order) (*Service, *memory.InvoiceRepository) {
	invoices := memory.NewInvoiceRepository()
	svc := NewService(
		fakeOrders{orders: orders},
		fakeCosts{"flour": d("10.00"), "oil": d("3.50")},
		memory.NewSettingsRepository(),
		invoices,
		WithClock(func() time.Time { return ref }),
	)
	return svc, invoices
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: "1", RestaurantID: "r1", ItemID: "flour", Quantity: d("2"), BillingPeriod: "2024-W1", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "2", RestaurantID: "r1", ItemID: "flour", Quantity: d("3"), BillingPeriod: "2024-W1", CreatedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)},
		{ID: "3", RestaurantID: "r2", ItemID: "oil", Quantity: d("4"), CreatedAt: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)},
		{ID: "4", RestaurantID: "r1", ItemID: "truffle", Quantity: d("1"), BillingPeriod: "2024-W2", CreatedAt: time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)},
		{ID: "5", RestaurantID: "r1", ItemID: "oil", Quantity: d("2"), BillingPeriod: "2024-W2", CreatedAt: time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC)},
	}
}

func TestStatement_GroupsAndReportsMissingCost(t *testing.T) {
	svc, invoices := newTestService(sampleOrders())
	_, err := invoices.Save(context.Background(), &domain.Invoice{ID: "inv-1", RestaurantID: "r1", Total: d("57"), CreatedAt: ref})
	require.NoError(t, err)

	view, err := svc.Statement(context.Background(), ports.StatementQuery{RestaurantID: "r1", Month: time.March, Year: 2024, Location: time.UTC})
	require.NoError(t, err)

	stmt := view.Statement
	require.Len(t, stmt.Periods, 2)
	assert.Equal(t, "2024-W1", stmt.Periods[0].Key)
	assert.True(t, d("50").Equal(stmt.Periods[0].Subtotal))
	assert.True(t, stmt.Periods[1].Subtotal.IsZero())
	assert.True(t, d("50").Equal(stmt.Total))
	require.Len(t, stmt.Missing, 1)
	assert.Equal(t, "4", stmt.Missing[0].OrderID)
	require.Len(t, view.Invoices, 1)
}

func TestStatement_PeriodWindow(t *testing.T) {
	svc, _ := newTestService(sampleOrders())

	view, err := svc.Statement(context.Background(), ports.StatementQuery{RestaurantID: "r1", Period: "weekly", Reference: ref})
	require.NoError(t, err)
	var ids []string
	for _, p := range view.Statement.Periods {
		for _, l := range p.Lines {
			ids = append(ids, l.ID)
		}
	}
	assert.Equal(t, []string{"2", "4"}, ids)
}

func TestStatement_UnknownPeriodIsInvalidInput(t *testing.T) {
	svc, _ := newTestService(sampleOrders())
	_, err := svc.Statement(context.Background(), ports.StatementQuery{RestaurantID: "r1", Period: "quarterly"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ErrUnknownPeriod)

	_, err = svc.Statement(context.Background(), ports.StatementQuery{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatement_SourceFailure(t *testing.T) {
	svc := NewService(fakeOrders{err: errors.New("db down")}, fakeCosts{}, memory.NewSettingsRepository(), memory.NewInvoiceRepository())
	_, err := svc.Statement(context.Background(), ports.StatementQuery{RestaurantID: "r1"})
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestTotals_DefaultsToBiWeekly(t *testing.T) {
	svc, _ := newTestService(sampleOrders())

	totals, err := svc.Totals(context.Background(), ports.TotalsQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodBiWeekly, totals.Period)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), totals.Cutoff)

	require.Len(t, totals.Restaurants, 2)
	assert.Equal(t, "r1", totals.Restaurants[0].RestaurantID)
	assert.True(t, d("50").Equal(totals.Restaurants[0].Total))
	assert.Len(t, totals.Restaurants[0].Missing, 1)
	assert.Equal(t, "r2", totals.Restaurants[1].RestaurantID)
	assert.True(t, d("14").Equal(totals.Restaurants[1].Total))
	assert.True(t, d("64").Equal(totals.Total.Total))
}

func TestSettings_Upsert(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Settings(ctx, "r1")
	require.ErrorIs(t, err, ErrNotFound)

	saved, err := svc.SaveSettings(ctx, ports.SettingsInput{RestaurantID: "r1", Email: "ap@example.com", Frequency: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, domain.FrequencyMonthly, saved.Frequency)

	_, err = svc.SaveSettings(ctx, ports.SettingsInput{RestaurantID: "r1", Email: "ap@example.com", Frequency: "quarterly"})
	require.NoError(t, err)
	got, err := svc.Settings(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.FrequencyQuarterly, got.Frequency)

	_, err = svc.SaveSettings(ctx, ports.SettingsInput{RestaurantID: "r1", Email: "ap@example.com", Frequency: "yearly"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ErrUnknownFrequency)
}
