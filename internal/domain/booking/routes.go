package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the member routes; the group must carry JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)

	// lifecycle
	rg.PATCH("/bookings/:id/confirm", h.ConfirmBooking)
	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/review-marker", h.MarkReviewed)

	rg.GET("/users/me/bookings", h.ListMyBookings)
	rg.GET("/owners/me/bookings", h.ListOwnerBookings)

	rg.GET("/chargers/:id/conflicts", h.FindConflicts)
	rg.GET("/chargers/:id/bookings/upcoming", h.UpcomingForCharger)
}

// RegisterAdminRoutes expects JWTAuth and AdminOnly on the group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.FindByDateRange)
	rg.PATCH("/bookings/:id/status", h.SetStatus)
	rg.PATCH("/bookings/:id/payment-status", h.UpdatePaymentStatus)
}

// RegisterInternalRoutes mounts the payment collaborator's callbacks; the
// group must carry InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/bookings/:id/payment-status", h.UpdatePaymentStatus)
}
