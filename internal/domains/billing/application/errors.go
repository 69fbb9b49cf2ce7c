package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

var (
	ErrInvalidInput      = errors.New("invalid billing input")
	ErrUnknownPeriod     = domain.ErrUnknownPeriod
	ErrUnknownFrequency  = domain.ErrUnknownFrequency
	ErrMissingCostData   = domain.ErrMissingCostData
	ErrNotFound          = ports.ErrNotFound
	ErrSourceUnavailable = errors.New("billing source unavailable")
)

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnknownPeriod),
		errors.Is(err, domain.ErrUnknownFrequency),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidRestaurantID):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
}
