package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory restaurant directory.
type Repository struct {
	mu          sync.RWMutex
	restaurants map[string]*domain.Restaurant
}

func NewRepository() *Repository {
	return &Repository{restaurants: map[string]*domain.Restaurant{}}
}

func (r *Repository) Save(_ context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	if rest == nil || rest.ID == "" {
		return nil, errors.New("restaurant id is required")
	}
	clone := *rest
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restaurants[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rest, ok := r.restaurants[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *rest
	return &clone, nil
}

func (r *Repository) List(_ context.Context, parentID string) ([]*domain.Restaurant, error) {
	r.mu.RLock()
	list := make([]*domain.Restaurant, 0, len(r.restaurants))
	for _, rest := range r.restaurants {
		if parentID != "" && rest.ParentID != parentID {
			continue
		}
		clone := *rest
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
