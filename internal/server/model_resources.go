package server

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
	driversdomain "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
	driversports "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
	restaurantsdomain "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/domain"
	restaurantsports "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
)

type CutOff struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
	Unit        string          `json:"unit"`
	CutOff      *CutOff         `json:"cutOff,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ItemPayload struct {
	Name        string `json:"name" binding:"required"`
	CostPerUnit string `json:"costPerUnit" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
}

type CutOffPayload struct {
	Day  string `json:"day" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type Driver struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule,omitempty"`
	Capacity  int       `json:"capacity"`
	Phone     string    `json:"phoneNumber"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type DriverPayload struct {
	Name     string `json:"name" binding:"required"`
	Schedule string `json:"schedule"`
	Capacity int    `json:"capacity"`
	Phone    string `json:"phoneNumber" binding:"required"`
	Email    string `json:"email"`
}

type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type RestaurantPayload struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	ParentID string `json:"parentId"`
}

func fromItem(item *catalogdomain.Item) Item {
	out := Item{
		ID:          item.ID,
		Name:        item.Name,
		CostPerUnit: item.CostPerUnit,
		Unit:        item.Unit,
		CreatedAt:   item.CreatedAt,
	}
	if item.CutOff != nil {
		out.CutOff = &CutOff{Day: item.CutOff.Day.String(), Time: item.CutOff.Time}
	}
	return out
}

func fromItems(list []*catalogdomain.Item) []Item {
	out := make([]Item, 0, len(list))
	for _, item := range list {
		out = append(out, fromItem(item))
	}
	return out
}

func (p ItemPayload) input() catalogports.ItemInput {
	return catalogports.ItemInput{Name: p.Name, CostPerUnit: p.CostPerUnit, Unit: p.Unit}
}

func fromDriver(d *driversdomain.Driver) Driver {
	return Driver{
		ID:        d.ID,
		Name:      d.Name,
		Schedule:  d.Schedule,
		Capacity:  d.Capacity,
		Phone:     d.Phone,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

func fromDrivers(list []*driversdomain.Driver) []Driver {
	out := make([]Driver, 0, len(list))
	for _, d := range list {
		out = append(out, fromDriver(d))
	}
	return out
}

func (p DriverPayload) input() driversports.DriverInput {
	return driversports.DriverInput{Name: p.Name, Schedule: p.Schedule, Capacity: p.Capacity, Phone: p.Phone, Email: p.Email}
}

func fromRestaurant(r *restaurantsdomain.Restaurant) Restaurant {
	return Restaurant{ID: r.ID, Name: r.Name, Address: r.Address, ParentID: r.ParentID, CreatedAt: r.CreatedAt}
}

func fromRestaurants(list []*restaurantsdomain.Restaurant) []Restaurant {
	out := make([]Restaurant, 0, len(list))
	for _, r := range list {
		out = append(out, fromRestaurant(r))
	}
	return out
}

func (p RestaurantPayload) input() restaurantsports.RestaurantInput {
	return restaurantsports.RestaurantInput{Name: p.Name, Address: p.Address, ParentID: p.ParentID}
}
