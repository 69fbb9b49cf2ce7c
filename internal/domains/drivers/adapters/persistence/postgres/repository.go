package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists drivers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&driverRecord{})
	}
	return repo
}

type driverRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `gorm:"column:name;index"`
	Schedule  string    `gorm:"column:schedule"`
	Capacity  int       `gorm:"column:capacity"`
	Phone     string    `gorm:"column:phone_number;type:varchar(32)"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (driverRecord) TableName() string { return "drivers" }

func (r *Repository) Save(ctx context.Context, d *domain.Driver) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New("driver is nil")
	}
	record := toRecord(d)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":         record.Name,
				"schedule":     record.Schedule,
				"capacity":     record.Capacity,
				"phone_number": record.Phone,
				"email":        record.Email,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record driverRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []driverRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Driver, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&driverRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres driver repository not configured")
	}
	return nil
}

func toRecord(d *domain.Driver) driverRecord {
	return driverRecord{
		ID:        d.ID,
		Name:      d.Name,
		Schedule:  d.Schedule,
		Capacity:  d.Capacity,
		Phone:     d.Phone,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

func (r driverRecord) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:        r.ID,
		Name:      r.Name,
		Schedule:  r.Schedule,
		Capacity:  r.Capacity,
		Phone:     r.Phone,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}
