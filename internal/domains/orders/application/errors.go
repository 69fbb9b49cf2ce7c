package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid inventory request input")
	// ErrInvalidTransition signals a lifecycle precondition was not met.
	ErrInvalidTransition = domain.ErrInvalidTransition
	// ErrPersistence signals the store collaborator failed.
	ErrPersistence = errors.New("inventory request persistence failed")
	// ErrNotFound signals the request does not exist.
	ErrNotFound = ports.ErrNotFound
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidRestaurantID) ||
		errors.Is(err, domain.ErrInvalidItemID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidUnit) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// mapStoreError classifies errors returned by the repository.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return err
	case errors.Is(err, ports.ErrStaleLifecycle):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	default:
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}
