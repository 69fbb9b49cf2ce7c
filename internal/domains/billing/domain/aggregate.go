package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownPeriod is the group key for orders without a billing period.
const UnknownPeriod = "Unknown"

var ErrMissingCostData = errors.New("missing cost data")

// Order is the billing read model of an accepted inventory request.
type Order struct {
	ID            string
	RestaurantID  string
	ItemID        string
	Quantity      decimal.Decimal
	BillingPeriod string
	CreatedAt     time.Time
}

// CostTable maps item id to cost per unit.
type CostTable map[string]decimal.Decimal

// MissingCostData flags an order priced at zero because its item has no cost.
type MissingCostData struct {
	OrderID string
	ItemID  string
}

func (m MissingCostData) Error() string {
	return "order " + m.OrderID + ": no cost for item " + m.ItemID
}

func (m MissingCostData) Unwrap() error { return ErrMissingCostData }

// PeriodGroup holds the orders sharing a billing period key, in input order.
type PeriodGroup struct {
	Key    string
	Orders []Order
}

// Subtotal is a sum plus the lines that could not be priced.
type Subtotal struct {
	Total   decimal.Decimal
	Missing []MissingCostData
}

// Complete reports whether every line was priced.
func (s Subtotal) Complete() bool { return len(s.Missing) == 0 }

// GroupByBillingPeriod partitions orders by billing period. Groups appear in order of
// first occurrence and orders keep their input order within a group.
func GroupByBillingPeriod(orders []Order) []PeriodGroup {
	index := make(map[string]int)
	var groups []PeriodGroup
	for _, o := range orders {
		key := periodKey(o.BillingPeriod)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PeriodGroup{Key: key})
		}
		groups[i].Orders = append(groups[i].Orders, o)
	}
	return groups
}

// LineTotal is quantity times cost per unit, unrounded.
func LineTotal(o Order, costPerUnit decimal.Decimal) decimal.Decimal {
	return o.Quantity.Mul(costPerUnit)
}

// PeriodSubtotal sums the priced lines of a group. Unpriced lines count as zero.
func PeriodSubtotal(orders []Order, costs CostTable) Subtotal {
	sub := Subtotal{Total: decimal.Zero}
	for _, o := range orders {
		cost, ok := costs[o.ItemID]
		if !ok {
			sub.Missing = append(sub.Missing, MissingCostData{OrderID: o.ID, ItemID: o.ItemID})
			continue
		}
		sub.Total = sub.Total.Add(LineTotal(o, cost))
	}
	return sub
}

// InvoiceTotal sums the subtotals of every group.
func InvoiceTotal(groups []PeriodGroup, costs CostTable) Subtotal {
	total := Subtotal{Total: decimal.Zero}
	for _, g := range groups {
		sub := PeriodSubtotal(g.Orders, costs)
		total.Total = total.Total.Add(sub.Total)
		total.Missing = append(total.Missing, sub.Missing...)
	}
	return total
}

// FilterByPeriodStart keeps orders created at or after the period cutoff. An unknown
// period returns the input unfiltered together with ErrUnknownPeriod.
func FilterByPeriodStart(orders []Order, period FilterPeriod, ref time.Time) ([]Order, error) {
	cutoff, err := period.Cutoff(ref)
	if err != nil {
		return append([]Order(nil), orders...), err
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FilterByMonthYear keeps orders created in month/year as observed in loc. Zero means any.
func FilterByMonthYear(orders []Order, month time.Month, year int, loc *time.Location) []Order {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		created := o.CreatedAt.In(loc)
		if month != 0 && created.Month() != month {
			continue
		}
		if year != 0 && created.Year() != year {
			continue
		}
		out = append(out, o)
	}
	return out
}

func periodKey(raw string) string {
	if key := strings.TrimSpace(raw); key != "" {
		return key
	}
	return UnknownPeriod
}
