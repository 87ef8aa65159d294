package booking

import "time"

type CreateBookingRequest struct {
	ChargerID string    `json:"charger_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	// TotalAmount overrides rate × duration; admins only.
	TotalAmount *float64 `json:"total_amount,omitempty"`
	// InstantBook skips owner approval; nil uses the server default.
	InstantBook *bool `json:"instant_book,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required,oneof=pending paid refunded"`
}

type ConflictsResponse struct {
	ChargerID string    `json:"charger_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Conflicts []Booking `json:"conflicts"`
}
