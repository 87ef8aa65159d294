package charger

import (
	"errors"
	"net/http"
	"time"

	"chargeshare/internal/middleware"
	"chargeshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// FindChargers lists approved chargers.
// @Summary Search chargers by hardware spec
// @Tags Chargers
// @Param type query string false "level1 | level2 | dc_fast"
// @Param connector query string false "j1772 | ccs1 | ccs2 | chademo | nacs | type2"
// @Router /api/v1/chargers [get]
func (h *Handler) FindChargers(c *gin.Context) {
	f := SpecFilter{
		ChargerType:   Type(c.Query("type")),
		ConnectorType: Connector(c.Query("connector")),
	}
	chargers, err := h.service.FindBySpecs(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chargers": chargers})
}

func (h *Handler) GetCharger(c *gin.Context) {
	ch, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"charger": ch})
}

// IsOpen answers whether [start, end) falls inside the published windows.
// @Router /api/v1/chargers/{id}/open [get]
func (h *Handler) IsOpen(c *gin.Context) {
	start, err1 := time.Parse(time.RFC3339, c.Query("start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("end"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be RFC3339 timestamps")
		return
	}

	open, err := h.service.IsOpen(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, OpenResponse{
		ChargerID: c.Param("id"),
		Start:     start.UTC(),
		End:       end.UTC(),
		Open:      open,
	})
}

func (h *Handler) CreateCharger(c *gin.Context) {
	var req CreateChargerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ch, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"charger": ch})
}

func (h *Handler) ListMyChargers(c *gin.Context) {
	chargers, err := h.service.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chargers": chargers})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ch, err := h.service.SetAvailability(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Windows)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"charger": ch})
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ch, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"charger": ch})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Charger not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this charger")
	case errors.Is(err, ErrInvalidWindows), errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		h.log.Error("charger request failed", zap.Error(err), zap.String("path", c.FullPath()))
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
