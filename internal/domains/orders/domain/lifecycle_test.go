package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStateFromRecord(t *testing.T) {
	cases := []struct {
		status Status
		called bool
		want   State
		bad    bool
	}{
		{StatusPending, false, StatePending, false},
		{StatusAccepted, false, StateAwaitingDispatch, false},
		{StatusAccepted, true, StateDispatched, false},
		{StatusRejected, false, StateRejected, false},
		{StatusPending, true, 0, true},
		{StatusRejected, true, 0, true},
		{"shipped", false, 0, true},
	}
	for _, tc := range cases {
		got, err := StateFromRecord(tc.status, tc.called)
		if tc.bad {
			require.ErrorIs(t, err, ErrMalformedLifecycle, "%s/%v", tc.status, tc.called)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
		require.Equal(t, tc.status, got.Status())
		require.Equal(t, tc.called, got.CalledDriver())
	}
}

func TestLifecycleTransitions(t *testing.T) {
	req, err := NewInventoryRequest("r1", "i1", decimal.NewFromInt(3), "case")
	require.NoError(t, err)

	require.ErrorIs(t, req.Dispatch(), ErrInvalidTransition)
	require.ErrorIs(t, req.Confirm(), ErrInvalidTransition)
	require.NoError(t, req.Accept())
	require.ErrorIs(t, req.Accept(), ErrInvalidTransition)
	require.ErrorIs(t, req.Reject(), ErrInvalidTransition)
	require.NoError(t, req.Confirm())
	require.NoError(t, req.Dispatch())
	require.ErrorIs(t, req.Dispatch(), ErrInvalidTransition)
	require.Equal(t, Lifecycle{State: StateDispatched, Confirmation: ConfirmationConfirmed}, req.Lifecycle)
}

func TestLifecycleValidate_RejectsConfirmedPending(t *testing.T) {
	l := Lifecycle{State: StatePending, Confirmation: ConfirmationConfirmed}
	require.ErrorIs(t, l.Validate(), ErrMalformedLifecycle)
}

func TestNewInventoryRequest_Validation(t *testing.T) {
	_, err := NewInventoryRequest(" ", "i1", decimal.NewFromInt(1), "kg")
	require.ErrorIs(t, err, ErrInvalidRestaurantID)
	_, err = NewInventoryRequest("r1", "", decimal.NewFromInt(1), "kg")
	require.ErrorIs(t, err, ErrInvalidItemID)
	_, err = NewInventoryRequest("r1", "i1", decimal.NewFromInt(-1), "kg")
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewInventoryRequest("r1", "i1", decimal.NewFromInt(1), "")
	require.ErrorIs(t, err, ErrInvalidUnit)
}

func TestViewsPartitionSnapshot(t *testing.T) {
	states := []State{StatePending, StateDispatched, StateAwaitingDispatch, StateRejected, StatePending}
	snapshot := make([]*InventoryRequest, 0, len(states))
	for i, s := range states {
		snapshot = append(snapshot, &InventoryRequest{ID: string(rune('a' + i)), Lifecycle: Lifecycle{State: s, Confirmation: ConfirmationPending}})
	}

	pending := Pending(snapshot)
	waiting := AwaitingDispatch(snapshot)
	history := Historical(snapshot)
	require.Len(t, pending, 2)
	require.Equal(t, "a", pending[0].ID)
	require.Equal(t, "e", pending[1].ID)
	require.Len(t, waiting, 1)
	require.Len(t, history, 2)
	require.Equal(t, "b", history[0].ID)
	require.Equal(t, "d", history[1].ID)
	require.Equal(t, len(snapshot), len(pending)+len(waiting)+len(history))
}

func TestCreatedWithin(t *testing.T) {
	req := &InventoryRequest{CreatedAt: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)}
	require.True(t, req.CreatedWithin(time.December, 2024, time.UTC))
	require.True(t, req.CreatedWithin(time.January, 2025, time.FixedZone("UTC+3", 3*3600)))
	require.True(t, req.CreatedWithin(0, 0, nil))
	require.False(t, req.CreatedWithin(time.November, 0, time.UTC))
}
