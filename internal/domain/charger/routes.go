package charger

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public read routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chargers := r.Group("/chargers")
	{
		chargers.GET("", h.FindChargers)    // GET /api/v1/chargers?type=...&connector=...
		chargers.GET("/:id", h.GetCharger)  // GET /api/v1/chargers/:id
		chargers.GET("/:id/open", h.IsOpen) // GET /api/v1/chargers/:id/open?start=...&end=...
	}
}

// RegisterProtectedRoutes expects JWTAuth on the group.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/chargers", h.CreateCharger)
	r.PUT("/chargers/:id/availability", h.SetAvailability)
	r.GET("/owners/me/chargers", h.ListMyChargers)
}

// RegisterAdminRoutes expects JWTAuth and AdminOnly on the group.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.PATCH("/chargers/:id/status", h.SetStatus)
}
