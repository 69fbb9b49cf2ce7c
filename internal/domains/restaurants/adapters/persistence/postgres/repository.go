package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists restaurants in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&restaurantRecord{})
	}
	return repo
}

type restaurantRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `gorm:"column:name;index"`
	Address   string    `gorm:"column:address"`
	ParentID  *string   `gorm:"column:parent_id;type:varchar(64);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (restaurantRecord) TableName() string { return "restaurants" }

func (r *Repository) Save(ctx context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, errors.New("restaurant is nil")
	}
	record := toRecord(rest)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"address":    record.Address,
				"parent_id":  record.ParentID,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record restaurantRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, parentID string) ([]*domain.Restaurant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if parentID != "" {
		query = query.Where("parent_id = ?", parentID)
	}
	var records []restaurantRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Restaurant, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres restaurant repository not configured")
	}
	return nil
}

func toRecord(rest *domain.Restaurant) restaurantRecord {
	rec := restaurantRecord{
		ID:        rest.ID,
		Name:      rest.Name,
		Address:   rest.Address,
		CreatedAt: rest.CreatedAt,
	}
	if rest.ParentID != "" {
		parent := rest.ParentID
		rec.ParentID = &parent
	}
	return rec
}

func (r restaurantRecord) toDomain() *domain.Restaurant {
	rest := &domain.Restaurant{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
	}
	if r.ParentID != nil {
		rest.ParentID = *r.ParentID
	}
	return rest
}
