package domain

import "fmt"

// Status is the persisted status column of an inventory request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// State is the lifecycle variant of a request. Accepted is split into two explicit
// sub-states instead of a status string plus a called-driver flag.
type State int

const (
	StatePending State = iota + 1
	StateAwaitingDispatch
	StateDispatched
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAwaitingDispatch:
		return "accepted"
	case StateDispatched:
		return "dispatched"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status returns the persisted status for the variant.
func (s State) Status() Status {
	switch s {
	case StateAwaitingDispatch, StateDispatched:
		return StatusAccepted
	case StateRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// CalledDriver returns the persisted called-driver flag for the variant.
func (s State) CalledDriver() bool {
	return s == StateDispatched
}

// Terminal reports whether no further lifecycle action applies.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateDispatched
}

// Accepted reports whether the request is in either accepted sub-state.
func (s State) Accepted() bool {
	return s == StateAwaitingDispatch || s == StateDispatched
}

// StateFromRecord decodes the persisted (status, called_driver) pair.
func StateFromRecord(status Status, calledDriver bool) (State, error) {
	switch status {
	case StatusPending, "":
		if calledDriver {
			return 0, fmt.Errorf("%w: pending request marked as dispatched", ErrMalformedLifecycle)
		}
		return StatePending, nil
	case StatusAccepted:
		if calledDriver {
			return StateDispatched, nil
		}
		return StateAwaitingDispatch, nil
	case StatusRejected:
		if calledDriver {
			return 0, fmt.Errorf("%w: rejected request marked as dispatched", ErrMalformedLifecycle)
		}
		return StateRejected, nil
	default:
		return 0, fmt.Errorf("%w: unknown status %q", ErrMalformedLifecycle, status)
	}
}

// Confirmation is the secondary billing confirmation flag (pending_status).
type Confirmation string

const (
	ConfirmationPending   Confirmation = "pending"
	ConfirmationConfirmed Confirmation = "confirmed"
)

// ConfirmationFromRecord decodes the persisted pending_status column.
func ConfirmationFromRecord(raw string) (Confirmation, error) {
	switch Confirmation(raw) {
	case ConfirmationPending, "":
		return ConfirmationPending, nil
	case ConfirmationConfirmed:
		return ConfirmationConfirmed, nil
	default:
		return "", fmt.Errorf("%w: unknown pending_status %q", ErrMalformedLifecycle, raw)
	}
}

// Lifecycle pairs the state variant with the billing confirmation.
type Lifecycle struct {
	State        State
	Confirmation Confirmation
}

// Validate checks the pair is a reachable combination.
func (l Lifecycle) Validate() error {
	switch l.State {
	case StatePending, StateAwaitingDispatch, StateDispatched, StateRejected:
	default:
		return fmt.Errorf("%w: unknown state %d", ErrMalformedLifecycle, int(l.State))
	}
	switch l.Confirmation {
	case ConfirmationPending:
	case ConfirmationConfirmed:
		if !l.State.Accepted() {
			return fmt.Errorf("%w: %s request cannot be confirmed", ErrMalformedLifecycle, l.State)
		}
	default:
		return fmt.Errorf("%w: unknown confirmation %q", ErrMalformedLifecycle, l.Confirmation)
	}
	return nil
}

func (l Lifecycle) accept() (Lifecycle, error) {
	if l.State != StatePending {
		return l, transitionError("accept", l.State)
	}
	l.State = StateAwaitingDispatch
	return l, nil
}

func (l Lifecycle) reject() (Lifecycle, error) {
	if l.State != StatePending {
		return l, transitionError("reject", l.State)
	}
	l.State = StateRejected
	return l, nil
}

func (l Lifecycle) dispatch() (Lifecycle, error) {
	if l.State != StateAwaitingDispatch {
		return l, transitionError("dispatch", l.State)
	}
	l.State = StateDispatched
	return l, nil
}

func (l Lifecycle) confirm() (Lifecycle, error) {
	if !l.State.Accepted() || l.Confirmation == ConfirmationConfirmed {
		return l, fmt.Errorf("%w: cannot confirm %s request (confirmation %s)", ErrInvalidTransition, l.State, l.Confirmation)
	}
	l.Confirmation = ConfirmationConfirmed
	return l, nil
}

func transitionError(action string, from State) error {
	return fmt.Errorf("%w: cannot %s a %s request", ErrInvalidTransition, action, from)
}
