package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("item not found")

// Repository persists catalog items.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// List returns items ordered by name.
	List(ctx context.Context) ([]*domain.Item, error)
	Delete(ctx context.Context, id string) error
}
