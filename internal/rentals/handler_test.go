package rentals

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(fx *engineFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(fx.svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Payment_Declined(t *testing.T) {
	fx := newEngineFixture(t)
	rental := returnedRental(t, fx, 3.0)
	router := newTestRouter(fx)

	// Spare Card holds 100 against a 600 distance fare.
	w := postJSON(t, router, "/api/v1/rentals/"+rental.ID+"/payment",
		gin.H{"strategy": 1, "instrument": 1})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Data    struct {
			Settled bool    `json:"settled"`
			Fee     float64 `json:"fee"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient balance", resp.Error)
	assert.False(t, resp.Data.Settled)
	assert.InDelta(t, 600, resp.Data.Fee, 0.001)
}

func TestHandler_Payment_Settled(t *testing.T) {
	fx := newEngineFixture(t)
	rental := returnedRental(t, fx, 3.0)
	router := newTestRouter(fx)

	w := postJSON(t, router, "/api/v1/rentals/"+rental.ID+"/payment",
		gin.H{"strategy": 1, "instrument": 0})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Settled bool `json:"settled"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Settled)
}
