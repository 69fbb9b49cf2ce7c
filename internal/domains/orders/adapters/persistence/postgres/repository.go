package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists inventory requests in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&requestRecord{})
	}
	return repo
}

// requestRecord maps an inventory request to the inventory_requests table.
type requestRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	RestaurantID  string          `gorm:"column:restaurant_id;type:varchar(64);index"`
	ItemID        string          `gorm:"column:item_id;type:varchar(64);index"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(12,3)"`
	Unit          string          `gorm:"column:unit;type:varchar(32)"`
	Status        string          `gorm:"column:status;type:varchar(32);index;not null;default:pending"`
	CalledDriver  bool            `gorm:"column:called_driver;not null;default:false"`
	PendingStatus string          `gorm:"column:pending_status;type:varchar(32);not null;default:pending"`
	BillingPeriod string          `gorm:"column:billing_period;type:varchar(32)"`
	Timeline      string          `gorm:"column:timeline"`
	Notes         string          `gorm:"column:notes"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (requestRecord) TableName() string { return "inventory_requests" }

// Lifecycle columns left NULL or empty by other writers read back as pending.
const (
	statusColumn       = "COALESCE(NULLIF(status, ''), 'pending')"
	calledDriverColumn = "COALESCE(called_driver, false)"
	confirmationColumn = "COALESCE(NULLIF(pending_status, ''), 'pending')"
)

// Create inserts a new request.
func (r *Repository) Create(ctx context.Context, req *domain.InventoryRequest) (*domain.InventoryRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("inventory request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(req)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a request by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record requestRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// List returns requests in creation order.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.InventoryRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if filter.RestaurantID != "" {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where(statusColumn+" IN ?", statuses)
	}
	var records []requestRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.InventoryRequest, 0, len(records))
	for i := range records {
		req, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// UpdateLifecycle writes next only if the row still holds expected.
func (r *Repository) UpdateLifecycle(ctx context.Context, id string, expected, next domain.Lifecycle) (*domain.InventoryRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&requestRecord{}).
		Where("id = ? AND "+statusColumn+" = ? AND "+calledDriverColumn+" = ? AND "+confirmationColumn+" = ?",
			id, string(expected.State.Status()), expected.State.CalledDriver(), string(expected.Confirmation)).
		Updates(map[string]any{
			"status":         string(next.State.Status()),
			"called_driver":  next.State.CalledDriver(),
			"pending_status": string(next.Confirmation),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ports.ErrStaleLifecycle
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory request repository not configured")
	}
	return nil
}

func toRecord(req *domain.InventoryRequest) requestRecord {
	return requestRecord{
		ID:            req.ID,
		RestaurantID:  req.RestaurantID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Status:        string(req.Lifecycle.State.Status()),
		CalledDriver:  req.Lifecycle.State.CalledDriver(),
		PendingStatus: string(req.Lifecycle.Confirmation),
		BillingPeriod: req.BillingPeriod,
		Timeline:      req.Timeline,
		Notes:         req.Notes,
		CreatedAt:     req.CreatedAt,
	}
}

func (r requestRecord) toDomain() (*domain.InventoryRequest, error) {
	state, err := domain.StateFromRecord(domain.Status(r.Status), r.CalledDriver)
	if err != nil {
		return nil, fmt.Errorf("inventory request %s: %w", r.ID, err)
	}
	confirmation, err := domain.ConfirmationFromRecord(r.PendingStatus)
	if err != nil {
		return nil, fmt.Errorf("inventory request %s: %w", r.ID, err)
	}
	return &domain.InventoryRequest{
		ID:            r.ID,
		RestaurantID:  r.RestaurantID,
		ItemID:        r.ItemID,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		Lifecycle:     domain.Lifecycle{State: state, Confirmation: confirmation},
		BillingPeriod: r.BillingPeriod,
		Timeline:      r.Timeline,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}, nil
}
