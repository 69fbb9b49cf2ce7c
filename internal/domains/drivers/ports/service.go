package ports

import (
	"context"

	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
)

// DriverInput carries the editable driver fields.
type DriverInput struct {
	Name     string
	Schedule string
	Capacity int
	Phone    string
	Email    string
}

// Service exposes roster management use cases.
type Service interface {
	Create(ctx context.Context, input DriverInput) (*domain.Driver, error)
	Update(ctx context.Context, id string, input DriverInput) (*domain.Driver, error)
	Get(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context) ([]*domain.Driver, error)
	Delete(ctx context.Context, id string) error
}
