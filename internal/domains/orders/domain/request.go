package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRestaurantID = errors.New("restaurant id is required")
	ErrInvalidItemID       = errors.New("item id is required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidUnit         = errors.New("unit is required")
	ErrInvalidTransition   = errors.New("invalid lifecycle transition")
	ErrMalformedLifecycle  = errors.New("persisted lifecycle fields are inconsistent")
)

// InventoryRequest is a location's request to replenish a catalog item.
type InventoryRequest struct {
	ID            string
	RestaurantID  string
	ItemID        string
	Quantity      decimal.Decimal
	Unit          string
	Lifecycle     Lifecycle
	BillingPeriod string
	Timeline      string
	Notes         string
	CreatedAt     time.Time
}

// NewInventoryRequest builds a pending, unconfirmed request.
func NewInventoryRequest(restaurantID, itemID string, quantity decimal.Decimal, unit string) (*InventoryRequest, error) {
	req := &InventoryRequest{
		RestaurantID: strings.TrimSpace(restaurantID),
		ItemID:       strings.TrimSpace(itemID),
		Quantity:     quantity,
		Unit:         strings.TrimSpace(unit),
		Lifecycle:    Lifecycle{State: StatePending, Confirmation: ConfirmationPending},
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate enforces the invariants a request must satisfy at the store boundary.
func (r *InventoryRequest) Validate() error {
	if strings.TrimSpace(r.RestaurantID) == "" {
		return ErrInvalidRestaurantID
	}
	if strings.TrimSpace(r.ItemID) == "" {
		return ErrInvalidItemID
	}
	if !r.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(r.Unit) == "" {
		return ErrInvalidUnit
	}
	return r.Lifecycle.Validate()
}

// Accept moves a pending request into the awaiting-dispatch state.
func (r *InventoryRequest) Accept() error {
	next, err := r.Lifecycle.accept()
	if err != nil {
		return err
	}
	r.Lifecycle = next
	return nil
}

// Reject terminates a pending request.
func (r *InventoryRequest) Reject() error {
	next, err := r.Lifecycle.reject()
	if err != nil {
		return err
	}
	r.Lifecycle = next
	return nil
}

// Dispatch records that drivers were called for an accepted request.
func (r *InventoryRequest) Dispatch() error {
	next, err := r.Lifecycle.dispatch()
	if err != nil {
		return err
	}
	r.Lifecycle = next
	return nil
}

// Confirm finalizes an accepted request for billing.
func (r *InventoryRequest) Confirm() error {
	next, err := r.Lifecycle.confirm()
	if err != nil {
		return err
	}
	r.Lifecycle = next
	return nil
}

// Clone returns a copy safe to hand across goroutines.
func (r *InventoryRequest) Clone() *InventoryRequest {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// CreatedWithin reports whether the request was created in the given month/year,
// evaluated in loc. Zero month or year means "any".
func (r *InventoryRequest) CreatedWithin(month time.Month, year int, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	created := r.CreatedAt.In(loc)
	if month != 0 && created.Month() != month {
		return false
	}
	if year != 0 && created.Year() != year {
		return false
	}
	return true
}
