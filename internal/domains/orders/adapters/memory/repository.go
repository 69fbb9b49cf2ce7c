package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory request store that preserves insertion order.
type Repository struct {
	mu       sync.RWMutex
	requests map[string]*domain.InventoryRequest
	order    []string
	inserted []ports.InsertHandler
}

func NewRepository() *Repository {
	return &Repository{requests: map[string]*domain.InventoryRequest{}}
}

func (r *Repository) Create(ctx context.Context, req *domain.InventoryRequest) (*domain.InventoryRequest, error) {
	if req == nil {
		return nil, errors.New("inventory request is nil")
	}
	if req.ID == "" {
		return nil, errors.New("inventory request id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	clone := req.Clone()

	r.mu.Lock()
	if _, exists := r.requests[clone.ID]; exists {
		r.mu.Unlock()
		return nil, errors.New("inventory request already exists: " + clone.ID)
	}
	r.requests[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	handlers := slices.Clone(r.inserted)
	r.mu.Unlock()

	for _, h := range handlers {
		_ = h(ctx, clone.Clone())
	}
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.InventoryRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.InventoryRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.InventoryRequest, 0, len(r.order))
	for _, id := range r.order {
		req := r.requests[id]
		if filter.RestaurantID != "" && req.RestaurantID != filter.RestaurantID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, req.Lifecycle.State.Status()) {
			continue
		}
		list = append(list, req.Clone())
	}
	return list, nil
}

func (r *Repository) UpdateLifecycle(_ context.Context, id string, expected, next domain.Lifecycle) (*domain.InventoryRequest, error) {
	if err := next.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if req.Lifecycle != expected {
		return nil, ports.ErrStaleLifecycle
	}
	req.Lifecycle = next
	return req.Clone(), nil
}
