package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chargeshare/internal/domain/charger"
	"chargeshare/internal/lock"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgExclusionViolation = "23P01"
	overlapConstraint    = "bookings_no_overlap"
)

type bookingRepository struct {
	db     *gorm.DB
	locker lock.Locker
}

func NewRepository(db *gorm.DB, locker lock.Locker) Repository {
	return &bookingRepository{db: db, locker: locker}
}

type bookingModel struct {
	ID        string `gorm:"column:id;primaryKey;size:36"`
	ChargerID string `gorm:"column:charger_id;not null;index:idx_bookings_charger_start,priority:1"`
	UserID    string `gorm:"column:user_id;not null;index"`
	OwnerID   string `gorm:"column:owner_id;not null;index"`

	StartTime time.Time `gorm:"column:start_time;not null;index:idx_bookings_charger_start,priority:2"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Duration  float64   `gorm:"column:duration"`

	HourlyRate    float64 `gorm:"column:hourly_rate;not null"`
	TotalAmount   float64 `gorm:"column:total_amount;not null"`
	PlatformFee   float64 `gorm:"column:platform_fee"`
	OwnerEarnings float64 `gorm:"column:owner_earnings"`

	Status        string `gorm:"column:status;not null;index"`
	PaymentStatus string `gorm:"column:payment_status;not null"`
	AccessCode    string `gorm:"column:access_code;size:6"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason"`
	StatusReason       string     `gorm:"column:status_reason"`
	HasReview          bool       `gorm:"column:has_review;not null;default:false"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// AutoMigrate creates or updates the bookings table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&bookingModel{})
}

func toDomainBooking(m bookingModel) *Booking {
	var cancelledAt *time.Time
	if m.CancelledAt != nil {
		t := m.CancelledAt.UTC()
		cancelledAt = &t
	}

	return &Booking{
		ID:        m.ID,
		ChargerID: m.ChargerID,
		UserID:    m.UserID,
		OwnerID:   m.OwnerID,
		Schedule: Schedule{
			StartTime: m.StartTime.UTC(),
			EndTime:   m.EndTime.UTC(),
			Duration:  m.Duration,
		},
		Pricing: Pricing{
			HourlyRate:    m.HourlyRate,
			TotalAmount:   m.TotalAmount,
			PlatformFee:   m.PlatformFee,
			OwnerEarnings: m.OwnerEarnings,
		},
		Status:             Status(m.Status),
		PaymentStatus:      PaymentStatus(m.PaymentStatus),
		AccessCode:         m.AccessCode,
		CancelledAt:        cancelledAt,
		CancellationReason: m.CancellationReason,
		StatusReason:       m.StatusReason,
		HasReview:          m.HasReview,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

func toBookingModel(b *Booking) bookingModel {
	return bookingModel{
		ID:                 b.ID,
		ChargerID:          b.ChargerID,
		UserID:             b.UserID,
		OwnerID:            b.OwnerID,
		StartTime:          b.Schedule.StartTime.UTC(),
		EndTime:            b.Schedule.EndTime.UTC(),
		Duration:           b.Schedule.Duration,
		HourlyRate:         b.Pricing.HourlyRate,
		TotalAmount:        b.Pricing.TotalAmount,
		PlatformFee:        b.Pricing.PlatformFee,
		OwnerEarnings:      b.Pricing.OwnerEarnings,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AccessCode:         b.AccessCode,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		StatusReason:       b.StatusReason,
		HasReview:          b.HasReview,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toDomainBookings(rows []bookingModel) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

// withChargerLock runs fn in a transaction holding both the locker key and
// the charger row lock. SQLite ignores FOR UPDATE; its single writer
// connection serializes the transaction instead.
func (r *bookingRepository) withChargerLock(ctx context.Context, chargerID string, fn func(tx *gorm.DB) error) error {
	unlock, err := r.locker.Acquire(ctx, "charger:"+chargerID)
	if err != nil {
		return fmt.Errorf("lock charger %s: %w", chargerID, err)
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct{ ID string }
		err := tx.Table("chargers").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", chargerID).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return charger.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock charger row: %w", err)
		}
		return fn(tx)
	})
}

func (r *bookingRepository) CreateIfNoConflict(ctx context.Context, b *Booking) error {
	err := r.withChargerLock(ctx, b.ChargerID, func(tx *gorm.DB) error {
		if b.Status.Blocking() {
			found, err := findConflicts(tx, b.ChargerID, b.Schedule.StartTime, b.Schedule.EndTime, "")
			if err != nil {
				return err
			}
			if len(found) > 0 {
				return &ConflictError{ConflictingIDs: bookingIDs(found)}
			}
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		b.CreatedAt, b.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
		return nil
	})
	return r.translateWriteError(ctx, b, err)
}

func (r *bookingRepository) TransitionIfNoConflict(ctx context.Context, b *Booking, from Status, version int) error {
	err := r.withChargerLock(ctx, b.ChargerID, func(tx *gorm.DB) error {
		if b.Status.Blocking() {
			found, err := findConflicts(tx, b.ChargerID, b.Schedule.StartTime, b.Schedule.EndTime, b.ID)
			if err != nil {
				return err
			}
			if len(found) > 0 {
				return &ConflictError{ConflictingIDs: bookingIDs(found)}
			}
		}

		now := time.Now().UTC()
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ? AND version = ?", b.ID, string(from), version).
			Select("status", "access_code", "cancelled_at", "cancellation_reason", "status_reason", "version", "updated_at").
			Updates(&bookingModel{
				Status:             string(b.Status),
				AccessCode:         b.AccessCode,
				CancelledAt:        b.CancelledAt,
				CancellationReason: b.CancellationReason,
				StatusReason:       b.StatusReason,
				Version:            version + 1,
				UpdatedAt:          now,
			})
		if res.Error != nil {
			return fmt.Errorf("update booking status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		b.Version = version + 1
		b.UpdatedAt = now
		return nil
	})
	return r.translateWriteError(ctx, b, err)
}

// translateWriteError maps a violated overlap constraint to ConflictError.
func (r *bookingRepository) translateWriteError(ctx context.Context, b *Booking, err error) error {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != pgExclusionViolation || pgErr.ConstraintName != overlapConstraint {
		return err
	}

	conflictErr := &ConflictError{}
	if found, ferr := r.FindConflicts(ctx, b.ChargerID, b.Schedule.StartTime, b.Schedule.EndTime, b.ID); ferr == nil {
		conflictErr.ConflictingIDs = bookingIDs(found)
	}
	return conflictErr
}

func findConflicts(db *gorm.DB, chargerID string, start, end time.Time, excludeID string) ([]Booking, error) {
	q := db.Model(&bookingModel{}).
		Where("charger_id = ?", chargerID).
		Where("status IN ?", blockingStatusValues()).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []bookingModel
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find conflicts: %w", err)
	}
	return toDomainBookings(rows), nil
}

func (r *bookingRepository) FindConflicts(ctx context.Context, chargerID string, start, end time.Time, excludeID string) ([]Booking, error) {
	return findConflicts(r.db.WithContext(ctx), chargerID, start, end, excludeID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return toDomainBooking(m), nil
}

// FindByDateRange returns bookings of any status intersecting [start, end).
func (r *bookingRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find bookings by date range: %w", err)
	}
	return toDomainBookings(rows), nil
}

// UpcomingForCharger returns non-terminal bookings that have not ended yet.
func (r *bookingRepository) UpcomingForCharger(ctx context.Context, chargerID string, now time.Time, limit int) ([]Booking, error) {
	var rows []bookingModel
	err := withLimit(r.db.WithContext(ctx), limit).
		Where("charger_id = ?", chargerID).
		Where("status IN ?", []string{string(StatusPending), string(StatusConfirmed), string(StatusActive)}).
		Where("end_time > ?", now.UTC()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("upcoming bookings: %w", err)
	}
	return toDomainBookings(rows), nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Booking, error) {
	return r.listBy(ctx, "user_id", userID, limit, offset)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Booking, error) {
	return r.listBy(ctx, "owner_id", ownerID, limit, offset)
}

func (r *bookingRepository) listBy(ctx context.Context, column, value string, limit, offset int) ([]Booking, error) {
	var rows []bookingModel
	err := withLimit(r.db.WithContext(ctx), limit).
		Where(column+" = ?", value).
		Order("start_time DESC").
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings by %s: %w", column, err)
	}
	return toDomainBookings(rows), nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Booking, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": string(status),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *bookingRepository) MarkReviewed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"has_review": true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("mark reviewed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DueForActivation lists confirmed bookings whose start has passed.
func (r *bookingRepository) DueForActivation(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	return r.due(ctx, StatusConfirmed, "start_time", now, limit)
}

// DueForCompletion lists active bookings whose end has passed.
func (r *bookingRepository) DueForCompletion(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	return r.due(ctx, StatusActive, "end_time", now, limit)
}

func (r *bookingRepository) due(ctx context.Context, status Status, column string, now time.Time, limit int) ([]Booking, error) {
	var rows []bookingModel
	err := withLimit(r.db.WithContext(ctx), limit).
		Where("status = ?", string(status)).
		Where(column+" <= ?", now.UTC()).
		Order(column + " ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("bookings due (%s): %w", status, err)
	}
	return toDomainBookings(rows), nil
}

// withLimit applies limit when positive; zero or less means unbounded.
func withLimit(db *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return db.Limit(limit)
	}
	return db
}
