package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&itemRecord{})
	}
	return repo
}

type itemRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string          `gorm:"column:name;index"`
	CostPerUnit decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(12,4)"`
	Unit        string          `gorm:"column:unit;type:varchar(32)"`
	CutOffDay   *string         `gorm:"column:cut_off_day;type:varchar(16)"`
	CutOffTime  *string         `gorm:"column:cut_off_time;type:varchar(5)"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("item is nil")
	}
	record := toRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"cost_per_unit": record.CostPerUnit,
				"unit":          record.Unit,
				"cut_off_day":   record.CutOffDay,
				"cut_off_time":  record.CutOffTime,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (r *Repository) List(ctx context.Context) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("LOWER(name) ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		item, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&itemRecord{}, "id = ?", id)
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
		return errors.New("postgres item repository not configured")
	}
	return nil
}

func toRecord(item *domain.Item) itemRecord {
	rec := itemRecord{
		ID:          item.ID,
		Name:        item.Name,
		CostPerUnit: item.CostPerUnit,
		Unit:        item.Unit,
		CreatedAt:   item.CreatedAt,
	}
	if item.CutOff != nil {
		day := item.CutOff.Day.String()
		at := item.CutOff.Time
		rec.CutOffDay = &day
		rec.CutOffTime = &at
	}
	return rec
}

func (r itemRecord) toDomain() (*domain.Item, error) {
	item := &domain.Item{
		ID:          r.ID,
		Name:        r.Name,
		CostPerUnit: r.CostPerUnit,
		Unit:        r.Unit,
		CreatedAt:   r.CreatedAt,
	}
	if r.CutOffDay != nil && r.CutOffTime != nil {
		cutOff, err := domain.ParseCutOff(*r.CutOffDay, *r.CutOffTime)
		if err != nil {
			return nil, err
		}
		item.CutOff = cutOff
	}
	return item, nil
}
