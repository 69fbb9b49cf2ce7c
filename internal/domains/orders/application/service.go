package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

// DefaultDispatchMessage is sent to every driver when a request is dispatched.
const DefaultDispatchMessage = "A new inventory request has been accepted and is ready for pickup."

// DefaultNotifyConcurrency bounds concurrent driver notifications.
const DefaultNotifyConcurrency = 4

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo        ports.Repository
	drivers     ports.DriverDirectory
	notifier    ports.Notifier
	publisher   ports.EventPublisher
	feed        ports.ChangeFeed
	alerts      *AlertBoard
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	message     string
	concurrency int
	alertTTL    time.Duration

	mu  sync.Mutex
	sub ports.Subscription
}

type Option func(*Service)

// WithDriverDirectory injects the source of driver contacts.
func WithDriverDirectory(d ports.DriverDirectory) Option {
	return func(s *Service) { s.drivers = d }
}

// WithNotifier injects the SMS transport.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithEventPublisher injects the listener for lifecycle and alert events.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithChangeFeed injects the feed that reports externally inserted requests.
func WithChangeFeed(f ports.ChangeFeed) Option {
	return func(s *Service) { s.feed = f }
}

// WithAlertTTL overrides DefaultAlertTTL.
func WithAlertTTL(ttl time.Duration) Option {
	return func(s *Service) { s.alertTTL = ttl }
}

// WithDispatchMessage overrides DefaultDispatchMessage.
func WithDispatchMessage(msg string) Option {
	return func(s *Service) {
		if strings.TrimSpace(msg) != "" {
			s.message = msg
		}
	}
}

// WithNotifyConcurrency overrides DefaultNotifyConcurrency.
func WithNotifyConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces uuid generation for new requests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithLogger injects the logger used for change feed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
		message:     DefaultDispatchMessage,
		concurrency: DefaultNotifyConcurrency,
		alertTTL:    DefaultAlertTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.alerts = NewAlertBoard(s.alertTTL, s.now, s.alertCleared)
	return s
}

// Start subscribes to the change feed, if one is configured.
func (s *Service) Start(ctx context.Context) error {
	if s.feed == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		return nil
	}
	sub, err := s.feed.Subscribe(ctx, s.handleInsert)
	if err != nil {
		return fmt.Errorf("subscribe to inventory request feed: %w", err)
	}
	s.sub = sub
	return nil
}

// Close releases the feed subscription and cancels pending alert timers.
func (s *Service) Close() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	s.alerts.Close()
	if sub == nil {
		return nil
	}
	return sub.Unsubscribe()
}

// Submit stores a new pending request on behalf of a location.
func (s *Service) Submit(ctx context.Context, input ports.SubmitRequestInput) (*domain.InventoryRequest, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(input.Quantity))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, domain.ErrInvalidQuantity, input.Quantity)
	}
	req, err := domain.NewInventoryRequest(input.RestaurantID, input.ItemID, quantity, input.Unit)
	if err != nil {
		return nil, mapError(err)
	}
	req.ID = s.newID()
	req.BillingPeriod = strings.TrimSpace(input.BillingPeriod)
	req.Timeline = strings.TrimSpace(input.Timeline)
	req.Notes = strings.TrimSpace(input.Notes)
	req.CreatedAt = s.now().UTC()

	saved, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}

// Get loads a single request.
func (s *Service) Get(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return req, nil
}

// List returns one of the derived views, in creation order.
func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.InventoryRequest, error) {
	var statuses []domain.Status
	switch query.View {
	case ports.ViewAll, "":
	case ports.ViewPending:
		statuses = []domain.Status{domain.StatusPending}
	case ports.ViewAwaitingDispatch:
		statuses = []domain.Status{domain.StatusAccepted}
	case ports.ViewHistorical:
		statuses = []domain.Status{domain.StatusAccepted, domain.StatusRejected}
	default:
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, query.View)
	}
	if query.Month < 0 || query.Month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidInput, query.Month)
	}

	snapshot, err := s.repo.List(ctx, ports.ListFilter{RestaurantID: query.RestaurantID, Statuses: statuses})
	if err != nil {
		return nil, mapStoreError(err)
	}

	switch query.View {
	case ports.ViewPending:
		snapshot = domain.Pending(snapshot)
	case ports.ViewAwaitingDispatch:
		snapshot = domain.AwaitingDispatch(snapshot)
	case ports.ViewHistorical:
		snapshot = domain.Historical(snapshot)
	}

	if query.Month == 0 && query.Year == 0 {
		return snapshot, nil
	}
	out := make([]*domain.InventoryRequest, 0, len(snapshot))
	for _, req := range snapshot {
		if req.CreatedWithin(query.Month, query.Year, query.Location) {
			out = append(out, req)
		}
	}
	return out, nil
}

// Accept moves a pending request to awaiting dispatch.
func (s *Service) Accept(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, id, (*domain.InventoryRequest).Accept)
}

// Reject terminates a pending request.
func (s *Service) Reject(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, id, (*domain.InventoryRequest).Reject)
}

// Confirm marks an accepted request as confirmed for billing.
func (s *Service) Confirm(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, id, (*domain.InventoryRequest).Confirm)
}

// MarkDispatched persists the dispatch transition. Nothing is sent to drivers.
func (s *Service) MarkDispatched(ctx context.Context, id string) (*domain.InventoryRequest, error) {
	return s.transition(ctx, id, (*domain.InventoryRequest).Dispatch)
}

// Dispatch persists the transition first and notifies drivers only once it is stored.
func (s *Service) Dispatch(ctx context.Context, id string) (*ports.DispatchReport, error) {
	req, err := s.MarkDispatched(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.NotifyDrivers(ctx, req), nil
}

// OnExternalInsert raises a new-order alert for a request reported by the change feed.
func (s *Service) OnExternalInsert(ctx context.Context, req *domain.InventoryRequest) (*ports.Alert, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("%w: inserted request has no id", ErrInvalidInput)
	}
	if req.Lifecycle.State != domain.StatePending {
		return nil, fmt.Errorf("%w: inserted request %s is %s", ErrInvalidInput, req.ID, req.Lifecycle.State)
	}
	alert := s.alerts.Raise(req.ID)
	s.publish(ctx, domain.RequestReceived{BaseEvent: s.event(), Request: req.Clone()})
	s.publish(ctx, domain.AlertRaised{BaseEvent: s.event(), RequestID: req.ID, ExpiresAt: alert.ExpiresAt})
	return &alert, nil
}

// ActiveAlerts lists visible alerts, oldest first.
func (s *Service) ActiveAlerts() []ports.Alert {
	return s.alerts.Active()
}

// DismissAlert clears an alert before it expires.
func (s *Service) DismissAlert(_ context.Context, requestID string) bool {
	return s.alerts.Dismiss(requestID)
}

func (s *Service) transition(ctx context.Context, id string, apply func(*domain.InventoryRequest) error) (*domain.InventoryRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	from := req.Lifecycle
	if err := apply(req); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.UpdateLifecycle(ctx, id, from, req.Lifecycle)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.publish(ctx, domain.RequestTransitioned{BaseEvent: s.event(), RequestID: id, From: from, To: saved.Lifecycle})
	return saved, nil
}

func (s *Service) handleInsert(ctx context.Context, req *domain.InventoryRequest) error {
	if _, err := s.OnExternalInsert(ctx, req); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.DebugContext(ctx, "ignoring inserted inventory request", slog.String("error", err.Error()))
			return nil
		}
		s.logger.ErrorContext(ctx, "failed to raise new order alert", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *Service) alertCleared(requestID, reason string) {
	s.publish(context.Background(), domain.AlertCleared{BaseEvent: s.event(), RequestID: requestID, Reason: reason})
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, event)
}

func (s *Service) event() domain.BaseEvent {
	return domain.BaseEvent{Timestamp: s.now().UTC()}
}

var _ ports.Service = (*Service)(nil)
