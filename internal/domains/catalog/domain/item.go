package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName       = errors.New("item name is required")
	ErrInvalidCost       = errors.New("item cost per unit must not be negative")
	ErrInvalidUnit       = errors.New("item unit is required")
	ErrInvalidCutOffDay  = errors.New("cut-off day must be a weekday name")
	ErrInvalidCutOffTime = errors.New("cut-off time must be HH:MM")
)

// Item is a catalog entry locations can request.
type Item struct {
	ID          string
	Name        string
	CostPerUnit decimal.Decimal
	Unit        string
	CutOff      *CutOff
	CreatedAt   time.Time
}

// CutOff is the weekly deadline for ordering an item.
type CutOff struct {
	Day  time.Weekday
	Time string
}

// NewItem validates and builds an item.
func NewItem(name string, cost decimal.Decimal, unit string) (*Item, error) {
	item := &Item{
		Name:        strings.TrimSpace(name),
		CostPerUnit: cost,
		Unit:        strings.TrimSpace(unit),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if i.CostPerUnit.IsNegative() {
		return ErrInvalidCost
	}
	if strings.TrimSpace(i.Unit) == "" {
		return ErrInvalidUnit
	}
	return nil
}

// ParseCutOff parses a weekday name (any case) and an HH:MM time.
func ParseCutOff(day, at string) (*CutOff, error) {
	weekday, err := ParseWeekday(day)
	if err != nil {
		return nil, err
	}
	at = strings.TrimSpace(at)
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCutOffTime, at)
	}
	return &CutOff{Day: weekday, Time: at}, nil
}

// ParseWeekday maps "Monday".."Sunday" to time.Weekday.
func ParseWeekday(day string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(strings.TrimSpace(day), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCutOffDay, day)
}

// NextDeadline returns the first cut-off at or after ref, in ref's location.
func (c CutOff) NextDeadline(ref time.Time) time.Time {
	t, _ := time.Parse("15:04", c.Time)
	candidate := time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location())
	delta := (int(c.Day) - int(ref.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, delta)
	if candidate.Before(ref) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
