package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

var (
	// ErrNoNotifier is reported per driver when no SMS transport is configured.
	ErrNoNotifier = errors.New("no notifier configured")
	// ErrNoDriverDirectory is reported when dispatch has nowhere to look up drivers.
	ErrNoDriverDirectory = errors.New("no driver directory configured")
	// ErrMissingPhone is reported for drivers without a phone number.
	ErrMissingPhone = errors.New("driver has no phone number")
)

// NotifyDrivers sends the dispatch message to every driver and collects per-driver outcomes.
// A failure for one driver never prevents the others from being notified.
func (s *Service) NotifyDrivers(ctx context.Context, req *domain.InventoryRequest) *ports.DispatchReport {
	report := &ports.DispatchReport{Request: req}
	if s.drivers == nil {
		report.Failures = append(report.Failures, failure(ports.DriverContact{}, ErrNoDriverDirectory))
		return report
	}
	contacts, err := s.drivers.Contacts(ctx)
	if err != nil {
		report.Failures = append(report.Failures, failure(ports.DriverContact{}, err))
		return report
	}

	results := make([]error, len(contacts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, contact := range contacts {
		g.Go(func() error {
			results[i] = s.notifyOne(ctx, contact)
			return nil
		})
	}
	_ = g.Wait()

	for i, contact := range contacts {
		if results[i] != nil {
			report.Failures = append(report.Failures, failure(contact, results[i]))
			continue
		}
		report.Notified = append(report.Notified, contact.DriverID)
	}
	return report
}

func (s *Service) notifyOne(ctx context.Context, contact ports.DriverContact) error {
	if s.notifier == nil {
		return ErrNoNotifier
	}
	if strings.TrimSpace(contact.Phone) == "" {
		return ErrMissingPhone
	}
	return s.notifier.Notify(ctx, contact.Phone, s.message)
}

func failure(contact ports.DriverContact, err error) ports.NotificationFailure {
	return ports.NotificationFailure{
		DriverID:    contact.DriverID,
		Destination: contact.Phone,
		Reason:      err.Error(),
		Err:         err,
	}
}
