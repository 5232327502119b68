package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/models"
)

func TestInterceptEndpoint_PendingFlow(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 50)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "transfer",
		"description":  "send 200 USDC",
		"value_usd":    200,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "pending", body["decision"])
	assert.Equal(t, float64(1), body["queue_position"])

	var pending []models.PendingApproval
	require.NoError(t, db.Find(&pending).Error)
	assert.Len(t, pending, 1)
}

func TestInterceptEndpoint_AutoApproveFlow(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 95)

	w := doJSON(t, router, "POST", "/api/v1/rules", map[string]interface{}{
		"name":           "approve low-risk",
		"priority":       1,
		"enabled":        true,
		"outcome":        "approve",
		"max_risk_level": "low",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "query",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "approved", body["decision"])

	// The dispatcher recorded an internal notification for the decision.
	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	assert.NotEmpty(t, notifications)
}

func TestInterceptEndpoint_Validation(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 50)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"type": "query",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "requester_id is required")

	w = doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "query",
		"value_usd":    -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "query",
		"ttl_seconds":  -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInterceptEndpoint_UnknownRequester(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "ghost",
		"type":         "query",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 95)

	w := doJSON(t, router, "POST", "/api/v1/rules", map[string]interface{}{
		"name": "approve everything", "priority": 1, "enabled": true, "outcome": "approve",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 3; i++ {
		w = doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
			"requester_id": "req-1",
			"type":         "query",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, router, "GET", "/api/v1/actions/history?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["total"])
	assert.Len(t, body["actions"], 2)
}
