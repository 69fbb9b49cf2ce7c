package domain

import "time"

// Event is the base interface for lifecycle events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// RequestReceived is raised when the change feed reports a new pending request.
type RequestReceived struct {
	BaseEvent
	Request *InventoryRequest
}

func (e RequestReceived) EventName() string { return "orders.request.received" }

// RequestTransitioned is raised after a lifecycle change has been persisted.
type RequestTransitioned struct {
	BaseEvent
	RequestID string
	From      Lifecycle
	To        Lifecycle
}

func (e RequestTransitioned) EventName() string { return "orders.request.transitioned" }

// AlertRaised is raised when a new-order alert becomes visible.
type AlertRaised struct {
	BaseEvent
	RequestID string
	ExpiresAt time.Time
}

func (e AlertRaised) EventName() string { return "orders.alert.raised" }

// AlertCleared is raised when an alert is dismissed or expires.
type AlertCleared struct {
	BaseEvent
	RequestID string
	Reason    string
}

func (e AlertCleared) EventName() string { return "orders.alert.cleared" }

const (
	AlertClearedDismissed = "dismissed"
	AlertClearedExpired   = "expired"
)
