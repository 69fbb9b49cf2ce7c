package orders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	ordersmemory "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/activities/orders"
)

type stubDirectory []ordersports.DriverContact

func (d stubDirectory) Contacts(context.Context) ([]ordersports.DriverContact, error) {
	return d, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *recordingNotifier) Notify(_ context.Context, destination, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if destination == "+15550000" {
		return errors.New("gateway rejected number")
	}
	n.sent = append(n.sent, destination)
	return nil
}

// commitThenFailRepo stores lifecycle updates but reports the next failures of them as errors.
type commitThenFailRepo struct {
	*ordersmemory.Repository
	mu       sync.Mutex
	failures int
	commit   bool
}

func (r *commitThenFailRepo) failNext(n int, commit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = n
	r.commit = commit
}

func (r *commitThenFailRepo) UpdateLifecycle(ctx context.Context, id string, expected, next domain.Lifecycle) (*domain.InventoryRequest, error) {
	r.mu.Lock()
	fail, commit := r.failures > 0, r.commit
	if fail {
		r.failures--
	}
	r.mu.Unlock()
	if !fail {
		return r.Repository.UpdateLifecycle(ctx, id, expected, next)
	}
	if commit {
		if _, err := r.Repository.UpdateLifecycle(ctx, id, expected, next); err != nil {
			return nil, err
		}
	}
	return nil, errors.New("connection reset by peer")
}

func newDispatchEnv(t *testing.T) (*testsuite.TestWorkflowEnvironment, *ordersapp.Service, *recordingNotifier) {
	t.Helper()
	return newDispatchEnvWithRepo(t, ordersmemory.NewRepository())
}

func newDispatchEnvWithRepo(t *testing.T, repo ordersports.Repository) (*testsuite.TestWorkflowEnvironment, *ordersapp.Service, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	service := ordersapp.NewService(
		repo,
		ordersapp.WithNotifier(notifier),
		ordersapp.WithDriverDirectory(stubDirectory{
			{DriverID: "d1", Phone: "+15551111"},
			{DriverID: "d2", Phone: "+15550000"},
			{DriverID: "d3", Phone: "+15553333"},
		}),
	)
	acts := orderactivities.NewActivities(service)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(acts.MarkDispatched, activity.RegisterOptions{Name: orderactivities.MarkDispatchedActivityName})
	env.RegisterActivityWithOptions(acts.NotifyDrivers, activity.RegisterOptions{Name: orderactivities.NotifyDriversActivityName})
	return env, service, notifier
}

func submit(t *testing.T, service *ordersapp.Service) *domain.InventoryRequest {
	t.Helper()
	req, err := service.Submit(context.Background(), ordersports.SubmitRequestInput{
		RestaurantID: "r1", ItemID: "flour", Quantity: "2", Unit: "kg",
	})
	require.NoError(t, err)
	return req
}

func TestDispatchWorkflow_MarksThenNotifies(t *testing.T) {
	env, service, notifier := newDispatchEnv(t)
	req := submit(t, service)
	_, err := service.Accept(context.Background(), req.ID)
	require.NoError(t, err)

	env.ExecuteWorkflow(DispatchWorkflow, DispatchWorkflowInput{RequestID: req.ID})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var report ordersports.DispatchReport
	require.NoError(t, env.GetWorkflowResult(&report))

	require.Equal(t, domain.StateDispatched, report.Request.Lifecycle.State)
	require.ElementsMatch(t, []string{"d1", "d3"}, report.Notified)
	require.Len(t, report.Failures, 1)
	require.Equal(t, "d2", report.Failures[0].DriverID)
	require.Equal(t, "gateway rejected number", report.Failures[0].Reason)

	sort.Strings(notifier.sent)
	require.Equal(t, []string{"+15551111", "+15553333"}, notifier.sent)

	stored, err := service.Get(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateDispatched, stored.Lifecycle.State)
}

func TestDispatchWorkflow_PendingRequestIsNotRetried(t *testing.T) {
	env, service, notifier := newDispatchEnv(t)
	req := submit(t, service)

	env.ExecuteWorkflow(DispatchWorkflow, DispatchWorkflowInput{RequestID: req.ID})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, orderactivities.ErrTypeInvalidTransition, appErr.Type())
	require.Empty(t, notifier.sent)
}

func TestDispatchWorkflow_RetryAfterLostCommitStillNotifies(t *testing.T) {
	repo := &commitThenFailRepo{Repository: ordersmemory.NewRepository()}
	env, service, notifier := newDispatchEnvWithRepo(t, repo)
	req := submit(t, service)
	_, err := service.Accept(context.Background(), req.ID)
	require.NoError(t, err)
	repo.failNext(1, true)

	env.ExecuteWorkflow(DispatchWorkflow, DispatchWorkflowInput{RequestID: req.ID})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var report ordersports.DispatchReport
	require.NoError(t, env.GetWorkflowResult(&report))
	require.Equal(t, domain.StateDispatched, report.Request.Lifecycle.State)
	require.ElementsMatch(t, []string{"d1", "d3"}, report.Notified)

	sort.Strings(notifier.sent)
	require.Equal(t, []string{"+15551111", "+15553333"}, notifier.sent)
}

func TestDispatchWorkflow_StoreFailureIsPersistenceError(t *testing.T) {
	repo := &commitThenFailRepo{Repository: ordersmemory.NewRepository()}
	env, service, notifier := newDispatchEnvWithRepo(t, repo)
	req := submit(t, service)
	_, err := service.Accept(context.Background(), req.ID)
	require.NoError(t, err)
	repo.failNext(100, false)

	env.ExecuteWorkflow(DispatchWorkflow, DispatchWorkflowInput{RequestID: req.ID})

	require.True(t, env.IsWorkflowCompleted())
	err = env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, orderactivities.ErrTypePersistence, appErr.Type())
	require.Empty(t, notifier.sent)

	stored, err := service.Get(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateAwaitingDispatch, stored.Lifecycle.State)
}
