package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory driver roster.
type Repository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
}

func NewRepository() *Repository {
	return &Repository{drivers: map[string]*domain.Driver{}}
}

func (r *Repository) Save(_ context.Context, d *domain.Driver) (*domain.Driver, error) {
	if d == nil || d.ID == "" {
		return nil, errors.New("driver id is required")
	}
	clone := *d
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	list := make([]*domain.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		clone := *d
		list = append(list, &clone)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.drivers, id)
	return nil
}
