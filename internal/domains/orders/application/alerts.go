package application

import (
	"sort"
	"sync"
	"time"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// DefaultAlertTTL is how long a new-order alert stays visible without a dismissal.
const DefaultAlertTTL = 5 * time.Second

// AlertBoard tracks transient new-order alerts, one per request.
type AlertBoard struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	active  map[string]*alertEntry
	onClear func(requestID, reason string)
}

type alertEntry struct {
	alert ports.Alert
	timer *time.Timer
}

// NewAlertBoard creates a board whose alerts expire after ttl.
func NewAlertBoard(ttl time.Duration, now func() time.Time, onClear func(requestID, reason string)) *AlertBoard {
	if ttl <= 0 {
		ttl = DefaultAlertTTL
	}
	if now == nil {
		now = time.Now
	}
	return &AlertBoard{
		ttl:     ttl,
		now:     now,
		active:  make(map[string]*alertEntry),
		onClear: onClear,
	}
}

// Raise shows an alert for the request. Raising an already active alert restarts its timer.
func (b *AlertBoard) Raise(requestID string) ports.Alert {
	raised := b.now()
	entry := &alertEntry{alert: ports.Alert{
		RequestID: requestID,
		RaisedAt:  raised,
		ExpiresAt: raised.Add(b.ttl),
	}}

	b.mu.Lock()
	if prev, ok := b.active[requestID]; ok {
		prev.timer.Stop()
	}
	b.active[requestID] = entry
	entry.timer = time.AfterFunc(b.ttl, func() { b.expire(requestID, entry) })
	b.mu.Unlock()

	return entry.alert
}

// Dismiss clears the alert and cancels its pending expiry.
func (b *AlertBoard) Dismiss(requestID string) bool {
	b.mu.Lock()
	entry, ok := b.active[requestID]
	if ok {
		entry.timer.Stop()
		delete(b.active, requestID)
	}
	b.mu.Unlock()

	if ok && b.onClear != nil {
		b.onClear(requestID, domain.AlertClearedDismissed)
	}
	return ok
}

// Active lists visible alerts, oldest first.
func (b *AlertBoard) Active() []ports.Alert {
	b.mu.Lock()
	out := make([]ports.Alert, 0, len(b.active))
	for _, entry := range b.active {
		out = append(out, entry.alert)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RaisedAt.Equal(out[j].RaisedAt) {
			return out[i].RequestID < out[j].RequestID
		}
		return out[i].RaisedAt.Before(out[j].RaisedAt)
	})
	return out
}

// Close cancels every pending expiry without notifying listeners.
func (b *AlertBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, entry := range b.active {
		entry.timer.Stop()
		delete(b.active, id)
	}
}

func (b *AlertBoard) expire(requestID string, entry *alertEntry) {
	b.mu.Lock()
	current, ok := b.active[requestID]
	if !ok || current != entry {
		b.mu.Unlock()
		return
	}
	delete(b.active, requestID)
	b.mu.Unlock()

	if b.onClear != nil {
		b.onClear(requestID, domain.AlertClearedExpired)
	}
}
