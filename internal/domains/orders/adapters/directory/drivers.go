package directory

import (
	"context"

	driversdomain "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// DriverLister is the slice of the drivers service dispatch needs.
type DriverLister interface {
	List(ctx context.Context) ([]*driversdomain.Driver, error)
}

var _ ports.DriverDirectory = (*Drivers)(nil)

// Drivers exposes the roster as dispatch contacts.
type Drivers struct {
	roster DriverLister
}

func NewDrivers(roster DriverLister) *Drivers {
	return &Drivers{roster: roster}
}

func (d *Drivers) Contacts(ctx context.Context) ([]ports.DriverContact, error) {
	list, err := d.roster.List(ctx)
	if err != nil {
		return nil, err
	}
	contacts := make([]ports.DriverContact, 0, len(list))
	for _, driver := range list {
		contacts = append(contacts, ports.DriverContact{
			DriverID: driver.ID,
			Name:     driver.Name,
			Phone:    driver.Phone,
		})
	}
	return contacts, nil
}
