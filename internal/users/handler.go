package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choiby7/kickboard-rental-service/pkg/common"
)

// Handler exposes the coupon-wallet operations the engine consumes.
type Handler struct {
	store *Store
}

// NewHandler creates a users handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the user endpoints on the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users/:id/coupons", h.GrantCoupon)
}

// GrantCoupon adds a coupon (id, rate) to the user's wallet.
func (h *Handler) GrantCoupon(c *gin.Context) {
	var req struct {
		CouponID string  `json:"coupon_id" binding:"required"`
		Rate     float64 `json:"rate" binding:"required,gt=0,lte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.AddCoupon(c.Param("id"), req.CouponID, req.Rate); err != nil {
		common.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	common.SuccessResponse(c, gin.H{"coupon_id": req.CouponID, "rate": req.Rate})
}
