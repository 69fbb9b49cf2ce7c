package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog.
type Repository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewRepository() *Repository {
	return &Repository{items: map[string]*domain.Item{}}
}

func (r *Repository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil || item.ID == "" {
		return nil, errors.New("item id is required")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	clone := cloneItem(item)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[clone.ID] = clone
	return cloneItem(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		list = append(list, cloneItem(item))
	}
	r.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a == b {
			return list[i].ID < list[j].ID
		}
		return a < b
	})
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneItem(item *domain.Item) *domain.Item {
	clone := *item
	if item.CutOff != nil {
		c := *item.CutOff
		clone.CutOff = &c
	}
	return &clone
}
