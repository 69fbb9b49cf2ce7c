package changefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
)

// insertPayload is the wire shape of an inserted inventory_requests row.
type insertPayload struct {
	ID            string          `json:"id"`
	RestaurantID  string          `json:"restaurant_id"`
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Status        string          `json:"status"`
	CalledDriver  bool            `json:"called_driver"`
	PendingStatus string          `json:"pending_status"`
	BillingPeriod string          `json:"billing_period,omitempty"`
	Timeline      string          `json:"timeline,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EncodeInsert serializes a request for publication on a message bus.
func EncodeInsert(req *domain.InventoryRequest) ([]byte, error) {
	return json.Marshal(insertPayload{
		ID:            req.ID,
		RestaurantID:  req.RestaurantID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Status:        string(req.Lifecycle.State.Status()),
		CalledDriver:  req.Lifecycle.State.CalledDriver(),
		PendingStatus: string(req.Lifecycle.Confirmation),
		BillingPeriod: req.BillingPeriod,
		Timeline:      req.Timeline,
		Notes:         req.Notes,
		CreatedAt:     req.CreatedAt,
	})
}

// DecodeInsert parses a published row back into a request and rejects rows that
// break the request invariants.
func DecodeInsert(data []byte) (*domain.InventoryRequest, error) {
	var p insertPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode inserted request: %w", err)
	}
	state, err := domain.StateFromRecord(domain.Status(p.Status), p.CalledDriver)
	if err != nil {
		return nil, err
	}
	confirmation, err := domain.ConfirmationFromRecord(p.PendingStatus)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, errors.New("decode inserted request: id is required")
	}
	req := &domain.InventoryRequest{
		ID:            p.ID,
		RestaurantID:  p.RestaurantID,
		ItemID:        p.ItemID,
		Quantity:      p.Quantity,
		Unit:          p.Unit,
		Lifecycle:     domain.Lifecycle{State: state, Confirmation: confirmation},
		BillingPeriod: p.BillingPeriod,
		Timeline:      p.Timeline,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("decode inserted request %s: %w", p.ID, err)
	}
	return req, nil
}
