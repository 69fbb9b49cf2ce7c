package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

var (
	ErrInvalidInput = errors.New("invalid item input")
	ErrNotFound     = ports.ErrNotFound
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidCost) ||
		errors.Is(err, domain.ErrInvalidUnit) ||
		errors.Is(err, domain.ErrInvalidCutOffDay) ||
		errors.Is(err, domain.ErrInvalidCutOffTime) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
