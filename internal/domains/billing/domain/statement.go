package domain

import "github.com/shopspring/decimal"

// Line is a priced order.
type Line struct {
	Order
	CostPerUnit decimal.Decimal
	Total       decimal.Decimal
	MissingCost bool
}

// PeriodStatement is one billing period of a statement.
type PeriodStatement struct {
	Key      string
	Lines    []Line
	Subtotal decimal.Decimal
}

// Statement is the consolidated, printable view of a restaurant's billable orders.
type Statement struct {
	RestaurantID string
	Periods      []PeriodStatement
	Total        decimal.Decimal
	Missing      []MissingCostData
}

// BuildStatement groups orders by billing period and prices every line.
func BuildStatement(restaurantID string, orders []Order, costs CostTable) Statement {
	groups := GroupByBillingPeriod(orders)
	stmt := Statement{RestaurantID: restaurantID, Total: decimal.Zero}
	for _, g := range groups {
		sub := PeriodSubtotal(g.Orders, costs)
		ps := PeriodStatement{Key: g.Key, Subtotal: sub.Total, Lines: make([]Line, 0, len(g.Orders))}
		for _, o := range g.Orders {
			cost, ok := costs[o.ItemID]
			line := Line{Order: o, CostPerUnit: cost, Total: decimal.Zero, MissingCost: !ok}
			if ok {
				line.Total = LineTotal(o, cost)
			}
			ps.Lines = append(ps.Lines, line)
		}
		stmt.Periods = append(stmt.Periods, ps)
		stmt.Total = stmt.Total.Add(sub.Total)
		stmt.Missing = append(stmt.Missing, sub.Missing...)
	}
	return stmt
}

// RestaurantTotal is the billable amount of one restaurant.
type RestaurantTotal struct {
	RestaurantID string
	Orders       int
	Subtotal
}

// TotalsByRestaurant sums orders per restaurant, in order of first occurrence.
func TotalsByRestaurant(orders []Order, costs CostTable) []RestaurantTotal {
	index := make(map[string]int)
	var grouped [][]Order
	var ids []string
	for _, o := range orders {
		i, ok := index[o.RestaurantID]
		if !ok {
			i = len(grouped)
			index[o.RestaurantID] = i
			grouped = append(grouped, nil)
			ids = append(ids, o.RestaurantID)
		}
		grouped[i] = append(grouped[i], o)
	}
	out := make([]RestaurantTotal, 0, len(grouped))
	for i, group := range grouped {
		out = append(out, RestaurantTotal{
			RestaurantID: ids[i],
			Orders:       len(group),
			Subtotal:     PeriodSubtotal(group, costs),
		})
	}
	return out
}
