package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRestaurantID = errors.New("restaurant id is required")
	ErrInvalidEmail        = errors.New("invoice email is invalid")
)

// Invoice is produced by the invoicing collaborator and read-only here.
type Invoice struct {
	ID           string
	RestaurantID string
	Subtotal     decimal.Decimal
	Total        decimal.Decimal
	DueDate      time.Time
	LastPayment  *time.Time
	CreatedAt    time.Time
}

// Settings controls where and how often a restaurant is invoiced.
type Settings struct {
	RestaurantID string
	Email        string
	Frequency    InvoiceFrequency
	UpdatedAt    time.Time
}

// NewSettings validates the email and frequency.
func NewSettings(restaurantID, email, frequency string) (*Settings, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, ErrInvalidRestaurantID
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	freq, err := ParseInvoiceFrequency(frequency)
	if err != nil {
		return nil, err
	}
	return &Settings{RestaurantID: restaurantID, Email: email, Frequency: freq}, nil
}
