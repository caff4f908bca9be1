package vehicles

import (
	"github.com/gin-gonic/gin"

	"github.com/choiby7/kickboard-rental-service/pkg/common"
)

// Handler exposes the vehicle fleet over HTTP.
type Handler struct {
	registry *Registry
}

// NewHandler creates a vehicles handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the vehicle endpoints on the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/vehicles", h.List)
}

// List returns the fleet ordered by id.
func (h *Handler) List(c *gin.Context) {
	common.SuccessResponse(c, h.registry.List())
}
