package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

type fakeRequestRepo struct {
	mu        sync.Mutex
	requests  map[string]*domain.InventoryRequest
	order     []string
	updateErr error
	updates   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*domain.InventoryRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, req *domain.InventoryRequest) (*domain.InventoryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = req.Clone()
	f.order = append(f.order, req.ID)
	return req.Clone(), nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.InventoryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.requests[id]; ok {
		return r.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeRequestRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.InventoryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.InventoryRequest
	for _, id := range f.order {
		r := f.requests[id]
		if filter.RestaurantID != "" && r.RestaurantID != filter.RestaurantID {
			continue
		}
		list = append(list, r.Clone())
	}
	return list, nil
}

func (f *fakeRequestRepo) UpdateLifecycle(_ context.Context, id string, expected, next domain.Lifecycle) (*domain.InventoryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	r, ok := f.requests[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if r.Lifecycle != expected {
		return nil, ports.ErrStaleLifecycle
	}
	f.updates++
	r.Lifecycle = next
	return r.Clone(), nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	fail map[string]error
}

func (f *fakeNotifier) Notify(_ context.Context, destination, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[destination]; err != nil {
		return err
	}
	f.sent = append(f.sent, destination)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeDirectory struct {
	contacts []ports.DriverContact
	err      error
}

func (f fakeDirectory) Contacts(context.Context) ([]ports.DriverContact, error) {
	return f.contacts, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

func seed(t *testing.T, repo *fakeRequestRepo, id string, state domain.State, created time.Time) {
	t.Helper()
	req, err := domain.NewInventoryRequest("r1", "i1", decimal.NewFromInt(2), "kg")
	require.NoError(t, err)
	req.ID = id
	req.Lifecycle.State = state
	req.CreatedAt = created
	_, err = repo.Create(context.Background(), req)
	require.NoError(t, err)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
}

func TestSubmit_ValidatesAndPersists(t *testing.T) {
	repo := newFakeRequestRepo()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return now }), WithIDGenerator(sequentialIDs()))

	saved, err := svc.Submit(context.Background(), ports.SubmitRequestInput{
		RestaurantID: "r1", ItemID: "i1", Quantity: "2.5", Unit: "kg", BillingPeriod: "weekly",
	})
	require.NoError(t, err)
	require.Equal(t, "req-1", saved.ID)
	require.Equal(t, domain.StatePending, saved.Lifecycle.State)
	require.Equal(t, domain.ConfirmationPending, saved.Lifecycle.Confirmation)
	require.True(t, decimal.RequireFromString("2.5").Equal(saved.Quantity))
	require.Equal(t, now, saved.CreatedAt)
}

func TestSubmit_InvalidQuantity(t *testing.T) {
	svc := NewService(newFakeRequestRepo())

	_, err := svc.Submit(context.Background(), ports.SubmitRequestInput{RestaurantID: "r1", ItemID: "i1", Quantity: "0", Unit: "kg"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.Submit(context.Background(), ports.SubmitRequestInput{RestaurantID: "r1", ItemID: "i1", Quantity: "lots", Unit: "kg"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAccept_OnlyFromPending(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StatePending, time.Now())
	svc := NewService(repo)

	accepted, err := svc.Accept(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.StateAwaitingDispatch, accepted.Lifecycle.State)
	require.Equal(t, domain.StatusAccepted, accepted.Lifecycle.State.Status())
	require.False(t, accepted.Lifecycle.State.CalledDriver())

	_, err = svc.Accept(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Reject(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReject_IsTerminal(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StatePending, time.Now())
	svc := NewService(repo)

	rejected, err := svc.Reject(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.StateRejected, rejected.Lifecycle.State)

	_, err = svc.Accept(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Dispatch(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Confirm(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_UnknownRequest(t *testing.T) {
	svc := NewService(newFakeRequestRepo())
	_, err := svc.Accept(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_StaleLifecycleIsInvalidTransition(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StatePending, time.Now())
	repo.updateErr = ports.ErrStaleLifecycle
	svc := NewService(repo)

	_, err := svc.Accept(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDispatch_NotifiesEveryDriverOnce(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StateAwaitingDispatch, time.Now())
	notifier := &fakeNotifier{}
	dir := fakeDirectory{contacts: []ports.DriverContact{
		{DriverID: "d1", Phone: "+15550001"},
		{DriverID: "d2", Phone: "+15550002"},
	}}
	svc := NewService(repo, WithNotifier(notifier), WithDriverDirectory(dir))

	report, err := svc.Dispatch(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.StateDispatched, report.Request.Lifecycle.State)
	require.True(t, report.Request.Lifecycle.State.CalledDriver())
	require.ElementsMatch(t, []string{"d1", "d2"}, report.Notified)
	require.Empty(t, report.Failures)
	require.Equal(t, 2, notifier.count())

	_, err = svc.Dispatch(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, 2, notifier.count())
}

func TestDispatch_PendingRequestIsRejected(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StatePending, time.Now())
	notifier := &fakeNotifier{}
	svc := NewService(repo, WithNotifier(notifier), WithDriverDirectory(fakeDirectory{contacts: []ports.DriverContact{{DriverID: "d1", Phone: "1"}}}))

	_, err := svc.Dispatch(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Zero(t, notifier.count())
}

func TestDispatch_PersistenceFailureSendsNothing(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StateAwaitingDispatch, time.Now())
	repo.updateErr = errors.New("connection reset")
	notifier := &fakeNotifier{}
	svc := NewService(repo, WithNotifier(notifier), WithDriverDirectory(fakeDirectory{contacts: []ports.DriverContact{{DriverID: "d1", Phone: "1"}}}))

	_, err := svc.Dispatch(context.Background(), "a")
	require.ErrorIs(t, err, ErrPersistence)
	require.Zero(t, notifier.count())

	stored, err := repo.GetByID(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.StateAwaitingDispatch, stored.Lifecycle.State)
}

func TestDispatch_PartialNotifierFailureKeepsTransition(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StateAwaitingDispatch, time.Now())
	boom := errors.New("carrier rejected")
	notifier := &fakeNotifier{fail: map[string]error{"+15550002": boom}}
	dir := fakeDirectory{contacts: []ports.DriverContact{
		{DriverID: "d1", Phone: "+15550001"},
		{DriverID: "d2", Phone: "+15550002"},
		{DriverID: "d3", Phone: ""},
	}}
	svc := NewService(repo, WithNotifier(notifier), WithDriverDirectory(dir), WithNotifyConcurrency(1))

	report, err := svc.Dispatch(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, []string{"d1"}, report.Notified)
	require.Len(t, report.Failures, 2)
	require.Equal(t, "d2", report.Failures[0].DriverID)
	require.ErrorIs(t, report.Failures[0], boom)
	require.Equal(t, "d3", report.Failures[1].DriverID)
	require.ErrorIs(t, report.Failures[1], ErrMissingPhone)

	stored, err := repo.GetByID(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.StateDispatched, stored.Lifecycle.State)
}

func TestDispatch_DirectoryFailureIsReported(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StateAwaitingDispatch, time.Now())
	svc := NewService(repo, WithNotifier(&fakeNotifier{}), WithDriverDirectory(fakeDirectory{err: errors.New("drivers unavailable")}))

	report, err := svc.Dispatch(context.Background(), "a")
	require.NoError(t, err)
	require.Empty(t, report.Notified)
	require.Len(t, report.Failures, 1)
	require.Empty(t, report.Failures[0].DriverID)
	require.Contains(t, report.Failures[0].Error(), "driver directory")
}

func TestConfirm_AcceptedOnlyOnce(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "a", domain.StateDispatched, time.Now())
	seed(t, repo, "b", domain.StatePending, time.Now())
	svc := NewService(repo)

	confirmed, err := svc.Confirm(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, domain.ConfirmationConfirmed, confirmed.Lifecycle.Confirmation)
	require.Equal(t, domain.StateDispatched, confirmed.Lifecycle.State)

	_, err = svc.Confirm(context.Background(), "a")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Confirm(context.Background(), "b")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestList_ViewsPreserveCreationOrder(t *testing.T) {
	repo := newFakeRequestRepo()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seed(t, repo, "p1", domain.StatePending, base)
	seed(t, repo, "w1", domain.StateAwaitingDispatch, base.Add(time.Hour))
	seed(t, repo, "x1", domain.StateRejected, base.Add(2*time.Hour))
	seed(t, repo, "p2", domain.StatePending, base.Add(3*time.Hour))
	seed(t, repo, "d1", domain.StateDispatched, base.Add(4*time.Hour))
	svc := NewService(repo)

	ids := func(view ports.View) []string {
		list, err := svc.List(context.Background(), ports.ListQuery{View: view})
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, r := range list {
			out = append(out, r.ID)
		}
		return out
	}

	require.Equal(t, []string{"p1", "p2"}, ids(ports.ViewPending))
	require.Equal(t, []string{"w1"}, ids(ports.ViewAwaitingDispatch))
	require.Equal(t, []string{"x1", "d1"}, ids(ports.ViewHistorical))
	require.Equal(t, []string{"p1", "w1", "x1", "p2", "d1"}, ids(ports.ViewAll))

	_, err := svc.List(context.Background(), ports.ListQuery{View: "archived"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_MonthYearFilterUsesLocation(t *testing.T) {
	repo := newFakeRequestRepo()
	seed(t, repo, "feb", domain.StatePending, time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC))
	seed(t, repo, "mar", domain.StatePending, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	seed(t, repo, "mar23", domain.StatePending, time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo)

	list, err := svc.List(context.Background(), ports.ListQuery{Month: time.March, Year: 2024, Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "mar", list[0].ID)

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	list, err = svc.List(context.Background(), ports.ListQuery{Month: time.March, Year: 2024, Location: plus2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "feb", list[0].ID)

	list, err = svc.List(context.Background(), ports.ListQuery{Month: time.March, Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestOnExternalInsert_RaisesAlertThatExpires(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(newFakeRequestRepo(), WithAlertTTL(20*time.Millisecond), WithEventPublisher(pub))
	t.Cleanup(func() { _ = svc.Close() })

	req, err := domain.NewInventoryRequest("r1", "i1", decimal.NewFromInt(1), "kg")
	require.NoError(t, err)
	req.ID = "a"

	alert, err := svc.OnExternalInsert(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "a", alert.RequestID)
	require.Len(t, svc.ActiveAlerts(), 1)

	require.Eventually(t, func() bool { return len(svc.ActiveAlerts()) == 0 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		names := pub.names()
		return len(names) == 3 && names[2] == "orders.alert.cleared"
	}, time.Second, 5*time.Millisecond)
}

func TestDismissAlert_CancelsExpiry(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(newFakeRequestRepo(), WithAlertTTL(time.Hour), WithEventPublisher(pub))
	t.Cleanup(func() { _ = svc.Close() })

	req, err := domain.NewInventoryRequest("r1", "i1", decimal.NewFromInt(1), "kg")
	require.NoError(t, err)
	req.ID = "a"
	_, err = svc.OnExternalInsert(context.Background(), req)
	require.NoError(t, err)

	require.True(t, svc.DismissAlert(context.Background(), "a"))
	require.False(t, svc.DismissAlert(context.Background(), "a"))
	require.Empty(t, svc.ActiveAlerts())

	cleared, ok := pub.events[len(pub.events)-1].(domain.AlertCleared)
	require.True(t, ok)
	require.Equal(t, domain.AlertClearedDismissed, cleared.Reason)
}

func TestOnExternalInsert_IgnoresNonPending(t *testing.T) {
	svc := NewService(newFakeRequestRepo())
	t.Cleanup(func() { _ = svc.Close() })

	req, err := domain.NewInventoryRequest("r1", "i1", decimal.NewFromInt(1), "kg")
	require.NoError(t, err)
	req.ID = "a"
	req.Lifecycle.State = domain.StateRejected

	_, err = svc.OnExternalInsert(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, svc.ActiveAlerts())
}

type fakeFeed struct {
	handler ports.InsertHandler
	closed  bool
}

func (f *fakeFeed) Subscribe(_ context.Context, h ports.InsertHandler) (ports.Subscription, error) {
	f.handler = h
	return f, nil
}

func (f *fakeFeed) Unsubscribe() error {
	f.closed = true
	return nil
}

func TestStart_SubscribesToFeed(t *testing.T) {
	feed := &fakeFeed{}
	svc := NewService(newFakeRequestRepo(), WithChangeFeed(feed), WithAlertTTL(time.Hour))
	require.NoError(t, svc.Start(context.Background()))
	require.NotNil(t, feed.handler)

	req, err := domain.NewInventoryRequest("r1", "i1", decimal.NewFromInt(1), "kg")
	require.NoError(t, err)
	req.ID = "a"
	require.NoError(t, feed.handler(context.Background(), req))
	require.Len(t, svc.ActiveAlerts(), 1)

	require.NoError(t, svc.Close())
	require.True(t, feed.closed)
	require.Empty(t, svc.ActiveAlerts())
}
