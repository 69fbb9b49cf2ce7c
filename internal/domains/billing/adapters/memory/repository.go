package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

var (
	_ ports.SettingsRepository = (*SettingsRepository)(nil)
	_ ports.InvoiceRepository  = (*InvoiceRepository)(nil)
)

// SettingsRepository keeps billing settings in memory.
type SettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]domain.Settings
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{settings: map[string]domain.Settings{}}
}

func (r *SettingsRepository) Get(_ context.Context, restaurantID string) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[restaurantID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &s, nil
}

func (r *SettingsRepository) Save(_ context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if settings == nil || settings.RestaurantID == "" {
		return nil, errors.New("settings restaurant id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[settings.RestaurantID] = *settings
	out := *settings
	return &out, nil
}

// InvoiceRepository keeps invoices in memory.
type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{invoices: map[string]*domain.Invoice{}}
}

func (r *InvoiceRepository) List(_ context.Context, restaurantID string) ([]*domain.Invoice, error) {
	r.mu.RLock()
	list := make([]*domain.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.RestaurantID == restaurantID {
			clone := *inv
			list = append(list, &clone)
		}
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InvoiceRepository) Save(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil || invoice.ID == "" {
		return nil, errors.New("invoice id is required")
	}
	clone := *invoice
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[clone.ID] = &clone
	out := clone
	return &out, nil
}
