package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidName     = errors.New("driver name is required")
	ErrInvalidPhone    = errors.New("driver phone number is required")
	ErrInvalidCapacity = errors.New("driver capacity must not be negative")
)

// Driver is a member of the delivery roster.
type Driver struct {
	ID        string
	Name      string
	Schedule  string
	Capacity  int
	Phone     string
	Email     string
	CreatedAt time.Time
}

// NewDriver validates and builds a driver.
func NewDriver(name, phone string) (*Driver, error) {
	d := &Driver{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(d.Phone) == "" {
		return ErrInvalidPhone
	}
	if d.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}
