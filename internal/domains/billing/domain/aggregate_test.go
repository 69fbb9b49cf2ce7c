package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func order(id, item, qty, period string) Order {
	return Order{ID: id, RestaurantID: "r1", ItemID: item, Quantity: dec(qty), BillingPeriod: period}
}

func TestPeriodSubtotal_SingleItemExample(t *testing.T) {
	orders := []Order{
		order("a", "flour", "2", "2024-W1"),
		order("b", "flour", "3", "2024-W1"),
		order("c", "flour", "1", "2024-W1"),
	}
	costs := CostTable{"flour": dec("10.00")}

	groups := GroupByBillingPeriod(orders)
	require.Len(t, groups, 1)
	require.Equal(t, "2024-W1", groups[0].Key)

	sub := PeriodSubtotal(groups[0].Orders, costs)
	assert.True(t, dec("60.00").Equal(sub.Total), "got %s", sub.Total)
	assert.True(t, sub.Complete())
}

func TestPeriodSubtotal_EmptyIsZero(t *testing.T) {
	sub := PeriodSubtotal(nil, CostTable{})
	assert.True(t, sub.Total.IsZero())
	assert.Empty(t, sub.Missing)
}

func TestPeriodSubtotal_MissingCostContributesZero(t *testing.T) {
	orders := []Order{
		order("a", "flour", "2", "p"),
		order("b", "saffron", "5", "p"),
		order("c", "flour", "1.5", "p"),
	}
	sub := PeriodSubtotal(orders, CostTable{"flour": dec("4.20")})

	assert.True(t, dec("14.70").Equal(sub.Total), "got %s", sub.Total)
	require.Len(t, sub.Missing, 1)
	assert.Equal(t, "b", sub.Missing[0].OrderID)
	assert.ErrorIs(t, sub.Missing[0], ErrMissingCostData)
}

func TestLineTotal_NoFloatDrift(t *testing.T) {
	var orders []Order
	for i := 0; i < 10; i++ {
		orders = append(orders, order("x", "gum", "1", "p"))
	}
	sub := PeriodSubtotal(orders, CostTable{"gum": dec("0.10")})
	assert.True(t, dec("1.00").Equal(sub.Total), "got %s", sub.Total)
}

func TestGroupByBillingPeriod_PartitionsAndPreservesOrder(t *testing.T) {
	orders := []Order{
		order("1", "i", "1", "march"),
		order("2", "i", "1", ""),
		order("3", "i", "1", "april"),
		order("4", "i", "1", "march"),
		order("5", "i", "1", "  "),
	}
	groups := GroupByBillingPeriod(orders)
	require.Len(t, groups, 3)

	keys := []string{groups[0].Key, groups[1].Key, groups[2].Key}
	assert.Equal(t, []string{"march", UnknownPeriod, "april"}, keys)
	assert.Equal(t, "1", groups[0].Orders[0].ID)
	assert.Equal(t, "4", groups[0].Orders[1].ID)
	assert.Equal(t, "2", groups[1].Orders[0].ID)
	assert.Equal(t, "5", groups[1].Orders[1].ID)

	seen := map[string]int{}
	for _, g := range groups {
		for _, o := range g.Orders {
			seen[o.ID]++
		}
	}
	assert.Len(t, seen, len(orders))
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestInvoiceTotal_EqualsSumOfSubtotals(t *testing.T) {
	orders := []Order{
		order("1", "a", "2", "p1"),
		order("2", "b", "3", "p2"),
		order("3", "a", "0.5", "p1"),
		order("4", "c", "7", ""),
		order("5", "missing", "1", "p2"),
	}
	costs := CostTable{"a": dec("1.10"), "b": dec("2.25"), "c": dec("0.333")}
	groups := GroupByBillingPeriod(orders)

	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(PeriodSubtotal(g.Orders, costs).Total)
	}
	total := InvoiceTotal(groups, costs)
	assert.True(t, sum.Equal(total.Total))
	assert.True(t, dec("11.831").Equal(total.Total), "got %s", total.Total)
	assert.Len(t, total.Missing, 1)
}

func TestFilterByPeriodStart_WeeklyExample(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		{ID: "old", CreatedAt: time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)},
		{ID: "edge", CreatedAt: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)},
		{ID: "new", CreatedAt: time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)},
	}

	out, err := FilterByPeriodStart(orders, PeriodWeekly, ref)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "edge", out[0].ID)
	assert.Equal(t, "new", out[1].ID)
}

func TestFilterByPeriodStart_Cutoffs(t *testing.T) {
	ref := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	cases := map[FilterPeriod]time.Time{
		PeriodWeekly:   time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC),
		PeriodBiWeekly: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		PeriodMonthly:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		PeriodYearly:   time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for period, want := range cases {
		got, err := period.Cutoff(ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(period))
	}
}

func TestFilterByPeriodStart_UnknownPeriodPassesThrough(t *testing.T) {
	orders := []Order{{ID: "a"}, {ID: "b"}}
	out, err := FilterByPeriodStart(orders, FilterPeriod("fortnightly"), time.Now())
	require.ErrorIs(t, err, ErrUnknownPeriod)
	assert.Len(t, out, 2)
}

func TestPeriodEnumerationsAreDistinct(t *testing.T) {
	_, err := ParseFilterPeriod("quarterly")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
	_, err = ParseInvoiceFrequency("yearly")
	assert.ErrorIs(t, err, ErrUnknownFrequency)

	p, err := ParseFilterPeriod("Bi-Weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodBiWeekly, p)
	f, err := ParseInvoiceFrequency("annually")
	require.NoError(t, err)
	assert.Equal(t, FrequencyAnnually, f)
}

func TestBuildStatement(t *testing.T) {
	orders := []Order{
		order("1", "a", "2", "W1"),
		order("2", "b", "1", "W2"),
		order("3", "a", "1", "W1"),
	}
	stmt := BuildStatement("r1", orders, CostTable{"a": dec("5")})

	require.Len(t, stmt.Periods, 2)
	assert.Equal(t, "W1", stmt.Periods[0].Key)
	assert.True(t, dec("15").Equal(stmt.Periods[0].Subtotal))
	assert.True(t, stmt.Periods[1].Lines[0].MissingCost)
	assert.True(t, stmt.Periods[1].Subtotal.IsZero())
	assert.True(t, dec("15").Equal(stmt.Total))
	assert.Len(t, stmt.Missing, 1)
}

func TestTotalsByRestaurant(t *testing.T) {
	orders := []Order{
		{ID: "1", RestaurantID: "r2", ItemID: "a", Quantity: dec("1")},
		{ID: "2", RestaurantID: "r1", ItemID: "a", Quantity: dec("2")},
		{ID: "3", RestaurantID: "r2", ItemID: "a", Quantity: dec("3")},
	}
	totals := TotalsByRestaurant(orders, CostTable{"a": dec("2.50")})
	require.Len(t, totals, 2)
	assert.Equal(t, "r2", totals[0].RestaurantID)
	assert.Equal(t, 2, totals[0].Orders)
	assert.True(t, dec("10").Equal(totals[0].Total))
	assert.True(t, dec("5").Equal(totals[1].Total))
}

func TestNewSettings(t *testing.T) {
	s, err := NewSettings("r1", "billing@example.com", "Quarterly")
	require.NoError(t, err)
	assert.Equal(t, FrequencyQuarterly, s.Frequency)

	_, err = NewSettings("r1", "not-an-email", "monthly")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewSettings("r1", "a@b.co", "yearly")
	assert.ErrorIs(t, err, ErrUnknownFrequency)
	_, err = NewSettings("", "a@b.co", "monthly")
	assert.ErrorIs(t, err, ErrInvalidRestaurantID)
}
