package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/domain"
)

var ErrNotFound = errors.New("restaurant not found")

// Repository persists restaurants.
type Repository interface {
	Save(ctx context.Context, r *domain.Restaurant) (*domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	// List returns restaurants ordered by name; a non-empty parentID restricts to its locations.
	List(ctx context.Context, parentID string) ([]*domain.Restaurant, error)
}

// RestaurantInput carries the fields of a new restaurant.
type RestaurantInput struct {
	Name     string
	Address  string
	ParentID string
}

// Service exposes restaurant directory use cases.
type Service interface {
	Create(ctx context.Context, input RestaurantInput) (*domain.Restaurant, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	List(ctx context.Context, parentID string) ([]*domain.Restaurant, error)
}
