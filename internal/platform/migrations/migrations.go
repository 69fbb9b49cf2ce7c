package migrations

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsertNotifyChannel is the LISTEN channel fed by the inventory_requests insert trigger.
const InsertNotifyChannel = "inventory_requests_inserted"

// Run applies the schema for the bounded contexts and installs the insert notification trigger.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&inventoryRequestRecord{},
		&itemRecord{},
		&driverRecord{},
		&restaurantRecord{},
		&billingSettingsRecord{},
		&invoiceRecord{},
	); err != nil {
		return err
	}
	for _, stmt := range notifyTriggerSQL(InsertNotifyChannel) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install insert trigger: %w", err)
		}
	}
	return nil
}

// notifyTriggerSQL only sends the row id; NOTIFY payloads are capped at 8000 bytes.
func notifyTriggerSQL(channel string) []string {
	return []string{
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION notify_inventory_request_inserted() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('%s', NEW.id);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`, channel),
		`DROP TRIGGER IF EXISTS inventory_requests_inserted ON inventory_requests`,
		`CREATE TRIGGER inventory_requests_inserted AFTER INSERT ON inventory_requests
	FOR EACH ROW EXECUTE FUNCTION notify_inventory_request_inserted()`,
	}
}

// Inventory request schema mirrors the orders Postgres adapter.
type inventoryRequestRecord struct {
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

func (inventoryRequestRecord) TableName() string { return "inventory_requests" }

// Item schema mirrors the catalog Postgres adapter.
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

// Driver schema mirrors the drivers Postgres adapter.
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

type restaurantRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name      string    `gorm:"column:name;index"`
	Address   string    `gorm:"column:address"`
	ParentID  *string   `gorm:"column:parent_id;type:varchar(64);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (restaurantRecord) TableName() string { return "restaurants" }

// Billing schemas mirror the billing Postgres adapter.
type billingSettingsRecord struct {
	RestaurantID string    `gorm:"primaryKey;column:restaurant_id;type:varchar(64)"`
	Email        string    `gorm:"column:email"`
	Frequency    string    `gorm:"column:frequency;type:varchar(16)"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (billingSettingsRecord) TableName() string { return "billing_settings" }

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
