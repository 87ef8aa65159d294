package booking

import (
	"context"
	"time"

	"chargeshare/internal/domain/charger"
)

type ConflictFinder interface {
	// FindConflicts returns blocking bookings on chargerID overlapping
	// [start, end), ordered by start. excludeID, when set, is skipped.
	FindConflicts(ctx context.Context, chargerID string, start, end time.Time, excludeID string) ([]Booking, error)
}

type Repository interface {
	ConflictFinder

	// CreateIfNoConflict inserts b. When b is blocking, the conflict check and
	// the insert happen under one charger-scoped lock.
	CreateIfNoConflict(ctx context.Context, b *Booking) error
	// TransitionIfNoConflict writes b's lifecycle fields if the stored row is
	// still in status `from` at `version`, re-checking conflicts when b is
	// blocking. On success b.Version is advanced.
	TransitionIfNoConflict(ctx context.Context, b *Booking, from Status, version int) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]Booking, error)
	UpcomingForCharger(ctx context.Context, chargerID string, now time.Time, limit int) ([]Booking, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Booking, error)
	MarkReviewed(ctx context.Context, id string) error
	DueForActivation(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	DueForCompletion(ctx context.Context, now time.Time, limit int) ([]Booking, error)
}

type ChargerReader interface {
	GetByID(ctx context.Context, id string) (*charger.Charger, error)
}
