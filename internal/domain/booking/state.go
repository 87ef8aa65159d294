package booking

import "time"

// Lifecycle actions, used in transition errors and logs.
const (
	ActionConfirm   = "confirm"
	ActionActivate  = "activate"
	ActionComplete  = "complete"
	ActionCancel    = "cancel"
	ActionSetStatus = "set_status"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
}

// CanTransition reports whether the lifecycle graph has an edge from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// applyTransition moves b to status `to`, keeping the access code invariant:
// a code exists exactly while the status is confirmed, active or completed.
// It does not check time guards.
func applyTransition(b *Booking, action string, to Status, now time.Time, newCode func() (string, error)) error {
	if !CanTransition(b.Status, to) {
		return &InvalidStateTransitionError{Action: action, From: b.Status, To: to}
	}

	switch to {
	case StatusConfirmed:
		code, err := newCode()
		if err != nil {
			return err
		}
		b.AccessCode = code
	case StatusCancelled:
		t := now.UTC()
		b.CancelledAt = &t
		b.AccessCode = ""
	}

	b.Status = to
	return nil
}

func guardFailed(b *Booking, action string, to Status, reason string) error {
	return &InvalidStateTransitionError{Action: action, From: b.Status, To: to, Reason: reason}
}
