package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

// Amounts are serialized as decimal strings so no precision is lost in transit.

type Line struct {
	OrderID     string          `json:"orderId"`
	ItemID      string          `json:"itemId"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
	Total       decimal.Decimal `json:"total"`
	MissingCost bool            `json:"missingCost,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Period struct {
	BillingPeriod string          `json:"billingPeriod"`
	Lines         []Line          `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type MissingCost struct {
	OrderID string `json:"orderId"`
	ItemID  string `json:"itemId"`
}

type Invoice struct {
	ID          string          `json:"id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	DueDate     time.Time       `json:"dueDate"`
	LastPayment *time.Time      `json:"lastPayment,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Statement struct {
	RestaurantID string          `json:"restaurantId"`
	Periods      []Period        `json:"periods"`
	Total        decimal.Decimal `json:"total"`
	Complete     bool            `json:"complete"`
	MissingCost  []MissingCost   `json:"missingCost"`
	Invoices     []Invoice       `json:"invoices"`
}

type RestaurantTotal struct {
	RestaurantID string          `json:"restaurantId"`
	Orders       int             `json:"orders"`
	Total        decimal.Decimal `json:"total"`
	MissingCost  []MissingCost   `json:"missingCost"`
}

type Totals struct {
	Period      string            `json:"period"`
	Cutoff      time.Time         `json:"cutoff"`
	Restaurants []RestaurantTotal `json:"restaurants"`
	Total       decimal.Decimal   `json:"total"`
	MissingCost []MissingCost     `json:"missingCost"`
}

type Settings struct {
	RestaurantID string    `json:"restaurantId"`
	Email        string    `json:"email"`
	Frequency    string    `json:"frequency"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SettingsPayload is the body of PUT /v1/billing/settings/:restaurantId.
type SettingsPayload struct {
	Email     string `json:"email" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
}

func FromStatementView(view *ports.StatementView) Statement {
	if view == nil {
		return Statement{}
	}
	stmt := view.Statement
	out := Statement{
		RestaurantID: stmt.RestaurantID,
		Periods:      make([]Period, 0, len(stmt.Periods)),
		Total:        stmt.Total,
		Complete:     len(stmt.Missing) == 0,
		MissingCost:  fromMissing(stmt.Missing),
		Invoices:     FromInvoices(view.Invoices),
	}
	for _, p := range stmt.Periods {
		period := Period{BillingPeriod: p.Key, Subtotal: p.Subtotal, Lines: make([]Line, 0, len(p.Lines))}
		for _, l := range p.Lines {
			period.Lines = append(period.Lines, Line{
				OrderID:     l.ID,
				ItemID:      l.ItemID,
				Quantity:    l.Quantity,
				CostPerUnit: l.CostPerUnit,
				Total:       l.Total,
				MissingCost: l.MissingCost,
				CreatedAt:   l.CreatedAt,
			})
		}
		out.Periods = append(out.Periods, period)
	}
	return out
}

func FromTotals(totals *ports.ChainTotals) Totals {
	if totals == nil {
		return Totals{}
	}
	out := Totals{
		Period:      string(totals.Period),
		Cutoff:      totals.Cutoff,
		Restaurants: make([]RestaurantTotal, 0, len(totals.Restaurants)),
		Total:       totals.Total.Total,
		MissingCost: fromMissing(totals.Total.Missing),
	}
	for _, r := range totals.Restaurants {
		out.Restaurants = append(out.Restaurants, RestaurantTotal{
			RestaurantID: r.RestaurantID,
			Orders:       r.Orders,
			Total:        r.Total,
			MissingCost:  fromMissing(r.Missing),
		})
	}
	return out
}

func FromSettings(s *domain.Settings) Settings {
	if s == nil {
		return Settings{}
	}
	return Settings{RestaurantID: s.RestaurantID, Email: s.Email, Frequency: string(s.Frequency), UpdatedAt: s.UpdatedAt}
}

func ToSettingsInput(restaurantID string, payload SettingsPayload) ports.SettingsInput {
	return ports.SettingsInput{RestaurantID: restaurantID, Email: payload.Email, Frequency: payload.Frequency}
}

func FromInvoices(list []*domain.Invoice) []Invoice {
	out := make([]Invoice, 0, len(list))
	for _, inv := range list {
		out = append(out, Invoice{
			ID:          inv.ID,
			Subtotal:    inv.Subtotal,
			Total:       inv.Total,
			DueDate:     inv.DueDate,
			LastPayment: inv.LastPayment,
			CreatedAt:   inv.CreatedAt,
		})
	}
	return out
}

func fromMissing(missing []domain.MissingCostData) []MissingCost {
	out := make([]MissingCost, 0, len(missing))
	for _, m := range missing {
		out = append(out, MissingCost{OrderID: m.OrderID, ItemID: m.ItemID})
	}
	return out
}
