package booking

import (
	"context"
	"strings"
	"time"

	"chargeshare/internal/domain/charger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Policy holds the configurable booking rules.
type Policy struct {
	CancellationCutoff time.Duration
	// InstantConfirm makes new bookings confirmed unless the request says otherwise.
	InstantConfirm bool
	Availability   charger.Availability
}

type Service struct {
	bookings  Repository
	chargers  ChargerReader
	validator *Validator
	policy    Policy
	log       *zap.Logger

	now     func() time.Time
	newCode func() (string, error)
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithAccessCodes(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(bookings Repository, chargers ChargerReader, policy Policy, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		bookings:  bookings,
		chargers:  chargers,
		validator: NewValidator(DefaultRules(policy.Availability, bookings)...),
		policy:    policy,
		log:       log,
		now:       time.Now,
		newCode:   NewAccessCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking validates and persists a reservation for userID.
func (s *Service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*Booking, error) {
	now := s.now().UTC()
	d := &Draft{
		ChargerID:   strings.TrimSpace(req.ChargerID),
		UserID:      userID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		TotalAmount: req.TotalAmount,
		Now:         now,
	}

	if d.ChargerID != "" {
		ch, err := s.chargers.GetByID(ctx, d.ChargerID)
		if err != nil {
			return nil, err
		}
		d.Charger = ch
		d.OwnerID = ch.OwnerID
		d.HourlyRate = ch.HourlyRate
	}

	if err := s.validator.Validate(ctx, d); err != nil {
		return nil, err
	}

	pricing, err := ComputePricing(d.HourlyRate, d.StartTime, d.EndTime, d.TotalAmount)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:        uuid.NewString(),
		ChargerID: d.ChargerID,
		UserID:    d.UserID,
		OwnerID:   d.OwnerID,
		Schedule: Schedule{
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Duration:  DurationHours(d.StartTime, d.EndTime),
		},
		Pricing:       pricing,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Version:       1,
	}

	instant := s.policy.InstantConfirm
	if req.InstantBook != nil {
		instant = *req.InstantBook
	}
	if instant {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		b.Status = StatusConfirmed
		b.AccessCode = code
	}

	if err := s.bookings.CreateIfNoConflict(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("charger_id", b.ChargerID),
		zap.String("user_id", b.UserID),
		zap.String("status", string(b.Status)),
		zap.Time("start", b.Schedule.StartTime),
		zap.Time("end", b.Schedule.EndTime),
	)
	return b, nil
}

// ConfirmBooking is the owner's approval of a pending booking.
func (s *Service) ConfirmBooking(ctx context.Context, id, actorID string, isAdmin bool) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && actorID != b.OwnerID {
		return nil, ErrForbidden
	}
	return s.transition(ctx, b, ActionConfirm, StatusConfirmed, nil)
}

// CancelBooking cancels on behalf of the booking's user or the charger owner.
func (s *Service) CancelBooking(ctx context.Context, id, actorID string, isAdmin bool, reason string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !b.IsParticipant(actorID) {
		return nil, ErrForbidden
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, &InvalidStateTransitionError{Action: ActionCancel, From: b.Status, To: StatusCancelled}
	}
	if !b.CanBeCancelled(s.now(), s.policy.CancellationCutoff) {
		return nil, guardFailed(b, ActionCancel, StatusCancelled, "booking starts within the cancellation cutoff")
	}

	return s.transition(ctx, b, ActionCancel, StatusCancelled, func(next *Booking) {
		next.CancellationReason = strings.TrimSpace(reason)
	})
}

// SetStatus is the administrative override. It follows the lifecycle graph
// but skips the time guards.
func (s *Service) SetStatus(ctx context.Context, id string, to Status, reason string) (*Booking, error) {
	if !to.Valid() {
		return nil, &ValidationError{Field: "status", Message: "Unknown booking status"}
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, b, ActionSetStatus, to, func(next *Booking) {
		next.StatusReason = strings.TrimSpace(reason)
	})
}

// Activate moves a confirmed booking to active once its start has passed.
func (s *Service) Activate(ctx context.Context, id string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusActive) {
		return nil, &InvalidStateTransitionError{Action: ActionActivate, From: b.Status, To: StatusActive}
	}
	if !b.ShouldBeActivated(s.now()) {
		return nil, guardFailed(b, ActionActivate, StatusActive, "booking has not started yet")
	}
	return s.transition(ctx, b, ActionActivate, StatusActive, nil)
}

// Complete moves an active booking to completed once its end has passed.
func (s *Service) Complete(ctx context.Context, id string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusCompleted) {
		return nil, &InvalidStateTransitionError{Action: ActionComplete, From: b.Status, To: StatusCompleted}
	}
	if !b.ShouldBeCompleted(s.now()) {
		return nil, guardFailed(b, ActionComplete, StatusCompleted, "booking has not ended yet")
	}
	return s.transition(ctx, b, ActionComplete, StatusCompleted, nil)
}

func (s *Service) transition(ctx context.Context, b *Booking, action string, to Status, mutate func(*Booking)) (*Booking, error) {
	from, version := b.Status, b.Version

	next := *b
	if err := applyTransition(&next, action, to, s.now(), s.newCode); err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&next)
	}

	if err := s.bookings.TransitionIfNoConflict(ctx, &next, from, version); err != nil {
		return nil, err
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", next.ID),
		zap.String("action", action),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return &next, nil
}

// DueForActivation lists bookings the sweep should activate now.
func (s *Service) DueForActivation(ctx context.Context, limit int) ([]Booking, error) {
	return s.bookings.DueForActivation(ctx, s.now(), limit)
}

func (s *Service) DueForCompletion(ctx context.Context, limit int) ([]Booking, error) {
	return s.bookings.DueForCompletion(ctx, s.now(), limit)
}

func (s *Service) FindConflicts(ctx context.Context, chargerID string, start, end time.Time) ([]Booking, error) {
	if !end.After(start) {
		return nil, &ValidationError{Field: "end_time", Message: "End time must be after start time"}
	}
	return s.bookings.FindConflicts(ctx, chargerID, start, end, "")
}

func (s *Service) FindByDateRange(ctx context.Context, start, end time.Time) ([]Booking, error) {
	if !end.After(start) {
		return nil, &ValidationError{Field: "end_time", Message: "End time must be after start time"}
	}
	return s.bookings.FindByDateRange(ctx, start, end)
}

func (s *Service) UpcomingForCharger(ctx context.Context, chargerID string, limit int) ([]Booking, error) {
	limit, _ = page(limit, 0)
	return s.bookings.UpcomingForCharger(ctx, chargerID, s.now(), limit)
}

// GetByID is visible to the booking's participants and admins.
func (s *Service) GetByID(ctx context.Context, id, actorID string, isAdmin bool) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !b.IsParticipant(actorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMyBookings(ctx context.Context, userID string, limit, offset int) ([]Booking, error) {
	limit, offset = page(limit, offset)
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListOwnerBookings(ctx context.Context, ownerID string, limit, offset int) ([]Booking, error) {
	limit, offset = page(limit, offset)
	return s.bookings.ListByOwner(ctx, ownerID, limit, offset)
}

// UpdatePaymentStatus mirrors the payment collaborator's view of a booking.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Booking, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "payment_status", Message: "Unknown payment status"}
	}
	b, err := s.bookings.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking payment status mirrored", zap.String("booking_id", id), zap.String("payment_status", string(status)))
	return b, nil
}

// MarkReviewed records that the booking's user left a review.
func (s *Service) MarkReviewed(ctx context.Context, id, actorID string, isAdmin bool) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && actorID != b.UserID {
		return nil, ErrForbidden
	}
	if b.Status != StatusCompleted {
		return nil, &ValidationError{Field: "status", Message: "Only completed bookings can be reviewed"}
	}
	if err := s.bookings.MarkReviewed(ctx, id); err != nil {
		return nil, err
	}
	b.HasReview = true
	return b, nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
