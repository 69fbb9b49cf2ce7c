package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

var (
	_ ports.SettingsRepository = (*SettingsRepository)(nil)
	_ ports.InvoiceRepository  = (*InvoiceRepository)(nil)
)

type settingsRecord struct {
	RestaurantID string    `gorm:"primaryKey;column:restaurant_id;type:varchar(64)"`
	Email        string    `gorm:"column:email"`
	Frequency    string    `gorm:"column:frequency;type:varchar(16)"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "billing_settings" }

type invoiceRecord struct {
	ID           string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	RestaurantID string          `gorm:"column:restaurant_id;type:varchar(64);index"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(14,4)"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(14,4)"`
	DueDate      time.Time       `gorm:"column:due_date"`
	LastPayment  *time.Time      `gorm:"column:last_payment"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
}

func (invoiceRecord) TableName() string { return "invoices" }

// SettingsRepository persists billing settings in PostgreSQL using GORM.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	if db != nil {
		_ = db.AutoMigrate(&settingsRecord{})
	}
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, restaurantID string) (*domain.Settings, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres billing settings repository not configured")
	}
	var record settingsRecord
	if err := r.db.WithContext(ctx).First(&record, "restaurant_id = ?", restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	freq, err := domain.ParseInvoiceFrequency(record.Frequency)
	if err != nil {
		return nil, err
	}
	return &domain.Settings{
		RestaurantID: record.RestaurantID,
		Email:        record.Email,
		Frequency:    freq,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres billing settings repository not configured")
	}
	if settings == nil {
		return nil, errors.New("settings are nil")
	}
	record := settingsRecord{
		RestaurantID: settings.RestaurantID,
		Email:        settings.Email,
		Frequency:    string(settings.Frequency),
		UpdatedAt:    settings.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "frequency", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, settings.RestaurantID)
}

// InvoiceRepository persists invoices in PostgreSQL using GORM.
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	if db != nil {
		_ = db.AutoMigrate(&invoiceRecord{})
	}
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) List(ctx context.Context, restaurantID string) ([]*domain.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres invoice repository not configured")
	}
	var records []invoiceRecord
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Invoice, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *InvoiceRepository) Save(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres invoice repository not configured")
	}
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	record := invoiceRecord{
		ID:           invoice.ID,
		RestaurantID: invoice.RestaurantID,
		Subtotal:     invoice.Subtotal,
		Total:        invoice.Total,
		DueDate:      invoice.DueDate,
		LastPayment:  invoice.LastPayment,
		CreatedAt:    invoice.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r invoiceRecord) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Subtotal:     r.Subtotal,
		Total:        r.Total,
		DueDate:      r.DueDate,
		LastPayment:  r.LastPayment,
		CreatedAt:    r.CreatedAt,
	}
}
