package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatewarden/gatewarden/internal/api/middleware"
	"github.com/gatewarden/gatewarden/internal/services"
)

type InterceptHandler struct {
	intercept *services.InterceptService
	notifier  *services.NotificationService
}

func NewInterceptHandler(intercept *services.InterceptService, notifier *services.NotificationService) *InterceptHandler {
	return &InterceptHandler{intercept: intercept, notifier: notifier}
}

type InterceptRequestBody struct {
	RequesterID      string                 `json:"requester_id" binding:"required"`
	Type             string                 `json:"type"`
	Description      string                 `json:"description"`
	Params           map[string]interface{} `json:"params"`
	ValueUSD         float64                `json:"value_usd"`
	ContentFragments []string               `json:"content_fragments"`
	TTLSeconds       *int                   `json:"ttl_seconds"`
}

// Intercept runs one action through the pipeline and returns the decision.
func (h *InterceptHandler) Intercept(c *gin.Context) {
	var req InterceptRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ValueUSD < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value_usd must not be negative"})
		return
	}

	svcReq := services.InterceptRequest{
		RequesterUUID:    req.RequesterID,
		Type:             req.Type,
		Description:      req.Description,
		Params:           req.Params,
		ValueUSD:         req.ValueUSD,
		ContentFragments: req.ContentFragments,
	}
	if req.TTLSeconds != nil {
		if *req.TTLSeconds < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ttl_seconds must not be negative"})
			return
		}
		ttl := time.Duration(*req.TTLSeconds) * time.Second
		svcReq.TTL = &ttl
	}

	result, err := h.intercept.Intercept(c.Request.Context(), svcReq)
	if err != nil {
		if errors.Is(err, services.ErrRequesterNotFound) || errors.Is(err, services.ErrRequesterDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("intercept failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to intercept action"})
		return
	}

	// Side effects happen after the core pipeline: the dispatcher consumes
	// the emitted events, the caller gets the decision either way.
	h.notifier.Dispatch(result.Events)

	c.JSON(http.StatusOK, result)
}

// History returns decided actions with limit/offset pagination.
func (h *InterceptHandler) History(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	actions, total, err := h.intercept.History(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "total": total, "limit": limit, "offset": offset})
}
