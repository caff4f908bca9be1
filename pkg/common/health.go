package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the /healthz payload. Checks maps each optional
// backend to "configured" or "disabled"; it reports wiring, not live
// connectivity.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a health handler reporting which optional
// backends the process was wired with.
func HealthCheck(serviceName string, checks map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: serviceName,
			Checks:  checks,
		})
	}
}
