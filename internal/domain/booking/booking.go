package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Blocking statuses hold the charger: two of them may never overlap.
func (s Status) Blocking() bool {
	return s == StatusConfirmed || s == StatusActive
}

// HasAccessCode reports whether a booking in this status carries a code.
func (s Status) HasAccessCode() bool {
	return s == StatusConfirmed || s == StatusActive || s == StatusCompleted
}

// PaymentStatus mirrors the payment processor; it never drives transitions.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid || p == PaymentRefunded
}

type Schedule struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// Duration in hours, unrounded.
	Duration float64 `json:"duration"`
}

type Pricing struct {
	HourlyRate    float64 `json:"hourly_rate"`
	TotalAmount   float64 `json:"total_amount"`
	PlatformFee   float64 `json:"platform_fee"`
	OwnerEarnings float64 `json:"owner_earnings"`
}

type Booking struct {
	ID        string `json:"id"`
	ChargerID string `json:"charger_id"`
	UserID    string `json:"user_id"`
	OwnerID   string `json:"owner_id"`

	Schedule Schedule `json:"schedule"`
	Pricing  Pricing  `json:"pricing"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	AccessCode    string        `json:"access_code,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	StatusReason       string     `json:"status_reason,omitempty"`
	HasReview          bool       `json:"has_review"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParticipant reports whether actorID is the booking's user or the charger owner.
func (b *Booking) IsParticipant(actorID string) bool {
	return actorID != "" && (actorID == b.UserID || actorID == b.OwnerID)
}

// Redacted keeps only what a charger's calendar shows to other members:
// identity, schedule and status.
func (b *Booking) Redacted() Booking {
	return Booking{
		ID:        b.ID,
		ChargerID: b.ChargerID,
		OwnerID:   b.OwnerID,
		Schedule:  b.Schedule,
		Status:    b.Status,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// VisibleTo redacts every booking the actor takes no part in. Admins see all.
func VisibleTo(bookings []Booking, actorID string, isAdmin bool) []Booking {
	if isAdmin {
		return bookings
	}
	out := make([]Booking, len(bookings))
	for i := range bookings {
		if bookings[i].IsParticipant(actorID) {
			out[i] = bookings[i]
		} else {
			out[i] = bookings[i].Redacted()
		}
	}
	return out
}

// CanBeCancelled is true while the booking is pending or confirmed and starts
// at least cutoff after now.
func (b *Booking) CanBeCancelled(now time.Time, cutoff time.Duration) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return b.Schedule.StartTime.Sub(now) >= cutoff
}

func (b *Booking) ShouldBeActivated(now time.Time) bool {
	return b.Status == StatusConfirmed && !now.Before(b.Schedule.StartTime)
}

func (b *Booking) ShouldBeCompleted(now time.Time) bool {
	return b.Status == StatusActive && !now.Before(b.Schedule.EndTime)
}
