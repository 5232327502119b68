package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/models"
)

func TestPendingEndpoints_ListAndDecide(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 50)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "transfer",
		"value_usd":    2000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/approvals/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])

	var pending models.PendingApproval
	require.NoError(t, db.First(&pending).Error)

	w = doJSON(t, router, "POST", "/api/v1/approvals/"+pending.UUID+"/decide", map[string]interface{}{
		"outcome": "approve",
		"reason":  "verified out of band",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["applied"])

	// Queue drains after the decision.
	w = doJSON(t, router, "GET", "/api/v1/approvals/pending", nil)
	body = decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
}

func TestPendingEndpoints_DecideTwice(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 50)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "transfer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pending models.PendingApproval
	require.NoError(t, db.First(&pending).Error)

	w = doJSON(t, router, "POST", "/api/v1/approvals/"+pending.UUID+"/decide", map[string]interface{}{
		"outcome": "reject",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var note models.Notification
	require.NoError(t, db.Where("message LIKE ?", "%manually%").First(&note).Error)
	assert.Contains(t, note.Message, "manually rejected")

	var audit models.AuditEntry
	require.NoError(t, db.First(&audit).Error)
	assert.Equal(t, "system", audit.Actor, "unauthenticated decisions are attributed to system")
	assert.Equal(t, "manual_decision", audit.Action)

	w = doJSON(t, router, "POST", "/api/v1/approvals/"+pending.UUID+"/decide", map[string]interface{}{
		"outcome": "approve",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["applied"])
	decision := body["decision"].(map[string]interface{})
	assert.Equal(t, "reject", decision["outcome"])
}

func TestPendingEndpoints_DecideValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/approvals/abc/decide", map[string]interface{}{
		"outcome": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/approvals/missing/decide", map[string]interface{}{
		"outcome": "approve",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPendingEndpoints_Sweep(t *testing.T) {
	router, db := setupRouter(t)
	seedRequester(t, db, "req-1", 50)

	w := doJSON(t, router, "POST", "/api/v1/intercept", map[string]interface{}{
		"requester_id": "req-1",
		"type":         "transfer",
		"ttl_seconds":  0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/approvals/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["expired"])

	var pending models.PendingApproval
	require.NoError(t, db.First(&pending).Error)
	assert.Equal(t, models.PendingStatusExpired, pending.Status)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Gatewarden", body["service"])
}
