// Package scheduler advances bookings whose start or end time has passed.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"chargeshare/internal/domain/booking"
	"chargeshare/internal/notification"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const defaultBatchSize = 100

// Lifecycle is the part of booking.Service the sweep drives.
type Lifecycle interface {
	DueForActivation(ctx context.Context, limit int) ([]booking.Booking, error)
	DueForCompletion(ctx context.Context, limit int) ([]booking.Booking, error)
	Activate(ctx context.Context, id string) (*booking.Booking, error)
	Complete(ctx context.Context, id string) (*booking.Booking, error)
}

type Result struct {
	Activated int
	Completed int
	Skipped   int
}

type Sweeper struct {
	bookings  Lifecycle
	notifier  notification.Notifier
	log       *zap.Logger
	batchSize int
}

func NewSweeper(bookings Lifecycle, notifier notification.Notifier, log *zap.Logger) *Sweeper {
	return &Sweeper{bookings: bookings, notifier: notifier, log: log, batchSize: defaultBatchSize}
}

// RunOnce activates due confirmed bookings, then completes due active ones.
// A booking that lost a race with another writer is skipped, not failed.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	due, err := s.bookings.DueForActivation(ctx, s.batchSize)
	if err != nil {
		return res, fmt.Errorf("list bookings due for activation: %w", err)
	}
	for _, b := range due {
		activated, err := s.bookings.Activate(ctx, b.ID)
		if err != nil {
			s.skip(b, "activate", err)
			res.Skipped++
			continue
		}
		res.Activated++
		notification.Dispatch(ctx, s.notifier, s.log,
			event(notification.TypeBookingActivated, activated.UserID, activated),
			event(notification.TypeBookingActivated, activated.OwnerID, activated),
		)
	}

	due, err = s.bookings.DueForCompletion(ctx, s.batchSize)
	if err != nil {
		return res, fmt.Errorf("list bookings due for completion: %w", err)
	}
	for _, b := range due {
		completed, err := s.bookings.Complete(ctx, b.ID)
		if err != nil {
			s.skip(b, "complete", err)
			res.Skipped++
			continue
		}
		res.Completed++
		notification.Dispatch(ctx, s.notifier, s.log,
			event(notification.TypeBookingCompleted, completed.UserID, completed),
			event(notification.TypeBookingCompleted, completed.OwnerID, completed),
		)
	}

	if res.Activated+res.Completed+res.Skipped > 0 {
		s.log.Info("booking sweep finished",
			zap.Int("activated", res.Activated),
			zap.Int("completed", res.Completed),
			zap.Int("skipped", res.Skipped),
		)
	}
	return res, nil
}

// Start runs RunOnce every interval until the returned scheduler is shut down.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error("booking sweep failed", zap.Error(err))
			}
		}),
		gocron.WithName("booking-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule booking sweep: %w", err)
	}

	sched.Start()
	s.log.Info("booking sweep scheduled", zap.Duration("interval", interval))
	return sched, nil
}

func (s *Sweeper) skip(b booking.Booking, action string, err error) {
	s.log.Warn("booking sweep skipped booking",
		zap.String("booking_id", b.ID),
		zap.String("action", action),
		zap.Error(err),
	)
}

func event(typ, recipientID string, b *booking.Booking) notification.Event {
	return notification.Event{
		Type:        typ,
		RecipientID: recipientID,
		BookingID:   b.ID,
		ChargerID:   b.ChargerID,
		Status:      string(b.Status),
		StartTime:   b.Schedule.StartTime,
	}
}
