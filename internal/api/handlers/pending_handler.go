package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/services"
)

type PendingHandler struct {
	queue    *services.QueueService
	notifier *services.NotificationService
}

func NewPendingHandler(queue *services.QueueService, notifier *services.NotificationService) *PendingHandler {
	return &PendingHandler{queue: queue, notifier: notifier}
}

// List returns the live approval queue. Default ordering is priority
// (critical first, FIFO within a band); ?order=enqueued sorts by age only.
func (h *PendingHandler) List(c *gin.Context) {
	pending, err := h.queue.ListPending(c.Query("order"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending approvals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "count": len(pending)})
}

type DecideRequestBody struct {
	Outcome string `json:"outcome" binding:"required"`
	Reason  string `json:"reason"`
}

// Decide records a manual decision for one queued item. If the item was
// already resolved the historically recorded decision is returned.
func (h *PendingHandler) Decide(c *gin.Context) {
	var req DecideRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var outcome models.DecisionOutcome
	switch req.Outcome {
	case "approve":
		outcome = models.DecisionApprove
	case "reject":
		outcome = models.DecisionReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be approve or reject"})
		return
	}

	decision, applied, err := h.queue.Decide(c.Param("id"), outcome, req.Reason, actorFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrPendingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pending approval not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record decision"})
		return
	}

	if applied {
		h.notifier.Dispatch([]services.Event{{
			Type:    services.EventDecisionMade,
			Title:   "Manual decision recorded",
			Message: "A pending approval was manually " + decision.Outcome.Verb() + ".",
			Data:    map[string]interface{}{"pending": c.Param("id"), "outcome": string(decision.Outcome)},
		}})
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision, "applied": applied})
}

// Sweep triggers an immediate expiry pass, mainly for operators and tests;
// the cron job runs the same code on a fixed period.
func (h *PendingHandler) Sweep(c *gin.Context) {
	expired, events, err := h.queue.ProcessExpired()
	h.notifier.Dispatch(events)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "expired": expired})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
