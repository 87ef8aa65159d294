// Package notification hands booking events to the messaging collaborator.
// Delivery is outside this service; the default notifier only logs.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event type constants
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingStatus    = "booking.status_changed"
	TypeBookingActivated = "booking.activated"
	TypeBookingCompleted = "booking.completed"
)

// Event is what a recipient is told about a booking.
type Event struct {
	Type        string
	RecipientID string
	BookingID   string
	ChargerID   string
	Status      string
	Reason      string
	StartTime   time.Time
	OccurredAt  time.Time
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// LogNotifier writes events to the log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	n.log.Info("notification",
		zap.String("type", e.Type),
		zap.String("recipient_id", e.RecipientID),
		zap.String("booking_id", e.BookingID),
		zap.String("charger_id", e.ChargerID),
		zap.String("status", e.Status),
		zap.String("reason", e.Reason),
		zap.Time("start_time", e.StartTime),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return nil
}

// Dispatch sends events and logs failures instead of returning them, so a
// messaging outage never fails the operation that produced the event.
func Dispatch(ctx context.Context, n Notifier, log *zap.Logger, events ...Event) {
	for _, e := range events {
		if e.OccurredAt.IsZero() {
			e.OccurredAt = time.Now().UTC()
		}
		if err := n.Notify(ctx, e); err != nil {
			log.Warn("notification failed",
				zap.String("type", e.Type),
				zap.String("booking_id", e.BookingID),
				zap.Error(err),
			)
		}
	}
}
