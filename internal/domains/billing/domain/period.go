package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownPeriod    = errors.New("unknown billing filter period")
	ErrUnknownFrequency = errors.New("unknown invoice frequency")
)

// FilterPeriod selects how far back order filtering reaches from a reference date.
type FilterPeriod string

const (
	PeriodWeekly   FilterPeriod = "weekly"
	PeriodBiWeekly FilterPeriod = "bi-weekly"
	PeriodMonthly  FilterPeriod = "monthly"
	PeriodYearly   FilterPeriod = "yearly"
)

// ParseFilterPeriod accepts the stable lower-case labels.
func ParseFilterPeriod(raw string) (FilterPeriod, error) {
	p := FilterPeriod(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PeriodWeekly, PeriodBiWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownPeriod, raw)
	}
}

// Cutoff returns the earliest creation time still inside the period ending at ref.
func (p FilterPeriod) Cutoff(ref time.Time) (time.Time, error) {
	switch p {
	case PeriodWeekly:
		return ref.AddDate(0, 0, -7), nil
	case PeriodBiWeekly:
		return ref.AddDate(0, 0, -14), nil
	case PeriodMonthly:
		return ref.AddDate(0, -1, 0), nil
	case PeriodYearly:
		return ref.AddDate(-1, 0, 0), nil
	default:
		return ref, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
}

// InvoiceFrequency is how often invoices are sent to a restaurant. It is a separate
// enumeration from FilterPeriod and the two are not interchangeable.
type InvoiceFrequency string

const (
	FrequencyWeekly    InvoiceFrequency = "weekly"
	FrequencyBiWeekly  InvoiceFrequency = "bi-weekly"
	FrequencyMonthly   InvoiceFrequency = "monthly"
	FrequencyQuarterly InvoiceFrequency = "quarterly"
	FrequencyAnnually  InvoiceFrequency = "annually"
)

// ParseInvoiceFrequency accepts the stable lower-case labels.
func ParseInvoiceFrequency(raw string) (InvoiceFrequency, error) {
	f := InvoiceFrequency(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return f, nil
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownFrequency, raw)
	}
}
