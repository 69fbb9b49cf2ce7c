package memory

import (
	"context"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var _ ports.ChangeFeed = (*Repository)(nil)

// Subscribe delivers every subsequent Create to handler, after the write is visible.
func (r *Repository) Subscribe(_ context.Context, handler ports.InsertHandler) (ports.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, handler)
	idx := len(r.inserted) - 1
	return &subscription{cancel: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.inserted[idx] = noopHandler
	}}, nil
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(s.cancel)
	return nil
}

func noopHandler(context.Context, *domain.InventoryRequest) error { return nil }
