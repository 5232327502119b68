package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/patterns"
	"github.com/gatewarden/gatewarden/internal/scanner"
	"github.com/gatewarden/gatewarden/internal/services"
)

// setupRouter builds a router with the pipeline handlers over a fresh
// in-memory DB. Auth middleware is left off; handler behavior is what is
// under test here.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.Requester{},
		&models.Action{},
		&models.PendingApproval{},
		&models.ApprovalRule{},
		&models.AuditEntry{},
		&models.Notification{},
		&models.NotificationProvider{},
	))

	reg, err := patterns.NewDefault()
	require.NoError(t, err)
	sc := scanner.New(reg, scanner.DefaultConfig())

	queue := services.NewQueueService(db, time.Hour)
	rules := services.NewRuleService(db)
	requesters := services.NewRequesterService(db)
	intercept := services.NewInterceptService(db, sc, rules, requesters, queue, 1000)
	notifier := services.NewNotificationService(db)

	interceptHandler := NewInterceptHandler(intercept, notifier)
	pendingHandler := NewPendingHandler(queue, notifier)
	ruleHandler := NewRuleHandler(rules, notifier)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/health", HealthHandler)
	v1.POST("/intercept", interceptHandler.Intercept)
	v1.GET("/actions/history", interceptHandler.History)
	v1.GET("/approvals/pending", pendingHandler.List)
	v1.POST("/approvals/:id/decide", pendingHandler.Decide)
	v1.POST("/approvals/sweep", pendingHandler.Sweep)
	v1.GET("/rules", ruleHandler.List)
	v1.POST("/rules", ruleHandler.Create)
	v1.PUT("/rules/:id", ruleHandler.Update)
	v1.DELETE("/rules/:id", ruleHandler.Delete)
	v1.GET("/rules/audit", ruleHandler.Audit)

	return router, db
}

func seedRequester(t *testing.T, db *gorm.DB, uuid string, trust int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Requester{
		UUID: uuid, Name: "agent " + uuid, TrustLevel: trust, Enabled: true,
	}).Error)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
