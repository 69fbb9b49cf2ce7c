package mapper

import (
	"time"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// InventoryRequest is the transport representation of a request. Status and CalledDriver keep
// the persisted encoding; State names the lifecycle variant.
type InventoryRequest struct {
	ID            string    `json:"id"`
	RestaurantID  string    `json:"restaurantId"`
	ItemID        string    `json:"itemId"`
	Quantity      string    `json:"quantity"`
	Unit          string    `json:"unit"`
	Status        string    `json:"status"`
	State         string    `json:"state"`
	CalledDriver  bool      `json:"calledDriver"`
	PendingStatus string    `json:"pendingStatus"`
	BillingPeriod string    `json:"billingPeriod,omitempty"`
	Timeline      string    `json:"timeline,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SubmitRequest is the payload of POST /v1/requests.
type SubmitRequest struct {
	RestaurantID  string `json:"restaurantId" binding:"required"`
	ItemID        string `json:"itemId" binding:"required"`
	Quantity      string `json:"quantity" binding:"required"`
	Unit          string `json:"unit" binding:"required"`
	BillingPeriod string `json:"billingPeriod"`
	Timeline      string `json:"timeline"`
	Notes         string `json:"notes"`
}

type NotificationFailure struct {
	DriverID    string `json:"driverId,omitempty"`
	Destination string `json:"destination,omitempty"`
	Reason      string `json:"reason"`
}

// DispatchReport is returned by the dispatch endpoint. A non-empty failure list does not
// mean the dispatch was rolled back.
type DispatchReport struct {
	Request  InventoryRequest      `json:"request"`
	Notified []string              `json:"notified"`
	Failures []NotificationFailure `json:"failures"`
}

type Alert struct {
	RequestID string    `json:"requestId"`
	RaisedAt  time.Time `json:"raisedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func ToSubmitInput(payload SubmitRequest) ports.SubmitRequestInput {
	return ports.SubmitRequestInput{
		RestaurantID:  payload.RestaurantID,
		ItemID:        payload.ItemID,
		Quantity:      payload.Quantity,
		Unit:          payload.Unit,
		BillingPeriod: payload.BillingPeriod,
		Timeline:      payload.Timeline,
		Notes:         payload.Notes,
	}
}

func FromDomain(req *domain.InventoryRequest) InventoryRequest {
	if req == nil {
		return InventoryRequest{}
	}
	state := req.Lifecycle.State
	return InventoryRequest{
		ID:            req.ID,
		RestaurantID:  req.RestaurantID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity.String(),
		Unit:          req.Unit,
		Status:        string(state.Status()),
		State:         state.String(),
		CalledDriver:  state.CalledDriver(),
		PendingStatus: string(req.Lifecycle.Confirmation),
		BillingPeriod: req.BillingPeriod,
		Timeline:      req.Timeline,
		Notes:         req.Notes,
		CreatedAt:     req.CreatedAt,
	}
}

func FromDomainList(list []*domain.InventoryRequest) []InventoryRequest {
	out := make([]InventoryRequest, 0, len(list))
	for _, req := range list {
		out = append(out, FromDomain(req))
	}
	return out
}

func FromDispatchReport(report *ports.DispatchReport) DispatchReport {
	out := DispatchReport{Notified: []string{}, Failures: []NotificationFailure{}}
	if report == nil {
		return out
	}
	out.Request = FromDomain(report.Request)
	out.Notified = append(out.Notified, report.Notified...)
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, NotificationFailure{
			DriverID:    f.DriverID,
			Destination: f.Destination,
			Reason:      f.Reason,
		})
	}
	return out
}

func FromAlerts(alerts []ports.Alert) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, Alert{RequestID: a.RequestID, RaisedAt: a.RaisedAt, ExpiresAt: a.ExpiresAt})
	}
	return out
}
