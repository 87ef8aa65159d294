package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConcurrentUpdate = errors.New("booking was modified concurrently")
)

// ValidationError is a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AvailabilityError means the charger cannot be booked for the range.
type AvailabilityError struct {
	Reason string
}

func (e *AvailabilityError) Error() string {
	return "charger not available: " + e.Reason
}

// ConflictError lists the blocking bookings that overlap the request.
type ConflictError struct {
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	if len(e.ConflictingIDs) == 0 {
		return "booking conflicts with an existing reservation"
	}
	return "booking conflicts with " + strings.Join(e.ConflictingIDs, ", ")
}

type InvalidStateTransitionError struct {
	Action string
	From   Status
	To     Status
	Reason string
}

func (e *InvalidStateTransitionError) Error() string {
	msg := fmt.Sprintf("cannot %s booking: %s -> %s", e.Action, e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}
