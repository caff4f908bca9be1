package rentals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choiby7/kickboard-rental-service/internal/simulator"
	"github.com/choiby7/kickboard-rental-service/pkg/common"
)

// Handler exposes the rental engine over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a rentals handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the rental endpoints on the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/rentals", h.OpenRental)
	api.GET("/rentals/active", h.ActiveRental)
	api.GET("/rentals/history", h.History)
	api.POST("/rentals/:id/poll", h.Poll)
	api.POST("/rentals/:id/return", h.Return)
	api.GET("/rentals/:id/quote", h.Quote)
	api.POST("/rentals/:id/payment", h.Payment)
}

// OpenRental opens a rental for (user, vehicle).
func (h *Handler) OpenRental(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		VehicleID string `json:"vehicle_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rental, err := h.service.Open(c.Request.Context(), req.UserID, req.VehicleID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.CreatedResponse(c, rental)
}

// ActiveRental returns the caller's active rental.
func (h *Handler) ActiveRental(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "user_id is required")
		return
	}

	rental, err := h.service.ActiveRentalForUser(userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.SuccessResponse(c, rental)
}

// History returns the caller's rental history.
func (h *Handler) History(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "user_id is required")
		return
	}

	entries, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load rental history")
		return
	}
	common.SuccessResponse(c, entries)
}

// Poll folds current telemetry into the rental.
func (h *Handler) Poll(c *gin.Context) {
	rental, err := h.service.Poll(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.telemetryAware(c, err)
		return
	}
	common.SuccessResponse(c, rental)
}

// Return runs the return handshake and completes the rental.
func (h *Handler) Return(c *gin.Context) {
	rental, err := h.service.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.telemetryAware(c, err)
		return
	}
	common.SuccessResponse(c, rental)
}

// Quote lists priced strategies and available promotions for a rental.
func (h *Handler) Quote(c *gin.Context) {
	quotes, discounts, err := h.service.Quote(c.Param("id"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{
		"strategies": quotes,
		"discounts":  discounts,
	})
}

// Payment settles the completed rental with a chosen strategy, discount
// selection and instrument. A declined payment is a 402 with the rental
// rolled back to ACTIVE; the usage telemetry is kept for a retry.
func (h *Handler) Payment(c *gin.Context) {
	var req struct {
		Strategy   int   `json:"strategy"`
		Discounts  []int `json:"discounts"`
		Instrument int   `json:"instrument"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Finalize(c.Request.Context(), c.Param("id"), req.Strategy, req.Discounts, req.Instrument)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if !result.Settled {
		declined := common.NewPaymentRequiredError("insufficient balance", nil)
		c.JSON(declined.Status, common.Response{Success: false, Data: result, Error: declined.Message})
		return
	}
	common.SuccessResponse(c, result)
}

// telemetryAware maps telemetry faults to 502: the engine is healthy,
// the external motion process is not.
func (h *Handler) telemetryAware(c *gin.Context, err error) {
	var telemetryErr *simulator.TelemetryError
	if errors.As(err, &telemetryErr) {
		common.ErrorResponse(c, http.StatusBadGateway, telemetryErr.Error())
		return
	}
	common.AbortWithError(c, err)
}
