package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
)

var ErrNotFound = errors.New("driver not found")

// Repository persists the driver roster.
type Repository interface {
	Save(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	// List returns drivers ordered by name.
	List(ctx context.Context) ([]*domain.Driver, error)
	Delete(ctx context.Context, id string) error
}
