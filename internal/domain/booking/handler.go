package booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"chargeshare/internal/domain/charger"
	"chargeshare/internal/middleware"
	"chargeshare/internal/notification"
	"chargeshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service  *Service
	notifier notification.Notifier
	log      *zap.Logger
}

func NewHandler(service *Service, notifier notification.Notifier, log *zap.Logger) *Handler {
	return &Handler{service: service, notifier: notifier, log: log}
}

// CreateBooking reserves a slot on a charger.
// @Summary Create booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "VALIDATION_ERROR"
// @Failure 409 {object} map[string]interface{} "BOOKING_CONFLICT"
// @Failure 422 {object} map[string]interface{} "NOT_AVAILABLE"
// @Router /api/v1/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.TotalAmount != nil && !middleware.IsAdmin(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may set total_amount")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	events := []notification.Event{h.event(notification.TypeBookingCreated, b.OwnerID, b, "")}
	if b.Status == StatusConfirmed {
		events = append(events, h.event(notification.TypeBookingConfirmed, b.UserID, b, ""))
	}
	notification.Dispatch(c.Request.Context(), h.notifier, h.log, events...)

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	b, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	notification.Dispatch(c.Request.Context(), h.notifier, h.log,
		h.event(notification.TypeBookingConfirmed, b.UserID, b, ""))
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actorID := middleware.UserID(c)
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), actorID, middleware.IsAdmin(c), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	recipient := b.OwnerID
	if actorID == b.OwnerID {
		recipient = b.UserID
	}
	notification.Dispatch(c.Request.Context(), h.notifier, h.log,
		h.event(notification.TypeBookingCancelled, recipient, b, b.CancellationReason))
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// SetStatus is the admin override.
// @Router /api/v1/admin/bookings/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	notification.Dispatch(c.Request.Context(), h.notifier, h.log,
		h.event(notification.TypeBookingStatus, b.UserID, b, b.StatusReason),
		h.event(notification.TypeBookingStatus, b.OwnerID, b, b.StatusReason),
	)
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) MarkReviewed(c *gin.Context) {
	b, err := h.service.MarkReviewed(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, offset := pageParams(c)
	bookings, err := h.service.ListMyBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	limit, offset := pageParams(c)
	bookings, err := h.service.ListOwnerBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// FindConflicts lists confirmed and active bookings overlapping start..end.
// Bookings the caller takes no part in come back redacted.
// @Router /api/v1/chargers/{id}/conflicts [get]
func (h *Handler) FindConflicts(c *gin.Context) {
	start, end, ok := rangeParams(c, "start", "end")
	if !ok {
		return
	}

	conflicts, err := h.service.FindConflicts(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ConflictsResponse{
		ChargerID: c.Param("id"),
		Start:     start,
		End:       end,
		Conflicts: VisibleTo(conflicts, middleware.UserID(c), middleware.IsAdmin(c)),
	})
}

func (h *Handler) UpcomingForCharger(c *gin.Context) {
	limit, _ := pageParams(c)
	bookings, err := h.service.UpcomingForCharger(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": VisibleTo(bookings, middleware.UserID(c), middleware.IsAdmin(c))})
}

func (h *Handler) FindByDateRange(c *gin.Context) {
	start, end, ok := rangeParams(c, "from", "to")
	if !ok {
		return
	}

	bookings, err := h.service.FindByDateRange(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) event(typ, recipientID string, b *Booking, reason string) notification.Event {
	return notification.Event{
		Type:        typ,
		RecipientID: recipientID,
		BookingID:   b.ID,
		ChargerID:   b.ChargerID,
		Status:      string(b.Status),
		Reason:      reason,
		StartTime:   b.Schedule.StartTime,
	}
}

// fail maps domain errors onto the response envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		validationErr   *ValidationError
		availabilityErr *AvailabilityError
		conflictErr     *ConflictError
		transitionErr   *InvalidStateTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message,
			gin.H{"field": validationErr.Field})
	case errors.As(err, &availabilityErr):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_AVAILABLE", availabilityErr.Error())
	case errors.As(err, &conflictErr):
		response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT", "Time slot is already booked",
			gin.H{"conflicting_ids": conflictErr.ConflictingIDs})
	case errors.As(err, &transitionErr):
		response.ErrorWithDetails(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", transitionErr.Error(),
			gin.H{"from": transitionErr.From, "to": transitionErr.To})
	case errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, "CONCURRENT_UPDATE", "Booking was modified by another request, reload and retry")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, charger.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Charger not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		h.log.Error("booking request failed", zap.Error(err), zap.String("path", c.FullPath()))
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func rangeParams(c *gin.Context, fromKey, toKey string) (time.Time, time.Time, bool) {
	start, err1 := time.Parse(time.RFC3339, c.Query(fromKey))
	end, err2 := time.Parse(time.RFC3339, c.Query(toKey))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", fromKey+" and "+toKey+" must be RFC3339 timestamps")
		return time.Time{}, time.Time{}, false
	}
	return start.UTC(), end.UTC(), true
}
