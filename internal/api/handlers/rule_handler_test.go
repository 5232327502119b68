package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/models"
)

func TestRuleEndpoints_CRUD(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/rules", map[string]interface{}{
		"name":     "manual review for transfers",
		"priority": 1,
		"enabled":  true,
		"outcome":  "manual",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	ruleUUID := created["uuid"].(string)
	require.NotEmpty(t, ruleUUID)

	w = doJSON(t, router, "GET", "/api/v1/rules", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "PUT", "/api/v1/rules/"+ruleUUID, map[string]interface{}{
		"name":     "renamed",
		"priority": 2,
		"enabled":  false,
		"outcome":  "manual",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "DELETE", "/api/v1/rules/"+ruleUUID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "DELETE", "/api/v1/rules/"+ruleUUID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleEndpoints_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/rules", map[string]interface{}{
		"name":    "bad outcome",
		"outcome": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PUT", "/api/v1/rules/missing", map[string]interface{}{
		"name":    "x",
		"outcome": "approve",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleEndpoints_Audit(t *testing.T) {
	router, db := setupRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/rules", map[string]interface{}{
		"name": "audited", "priority": 1, "enabled": true, "outcome": "approve",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var entries []models.AuditEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "rule_created", entries[0].Action)
	assert.Equal(t, "system", entries[0].Actor, "unauthenticated changes attribute to system")

	w = doJSON(t, router, "GET", "/api/v1/rules/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
