package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/services"
)

type RuleHandler struct {
	rules    *services.RuleService
	notifier *services.NotificationService
}

func NewRuleHandler(rules *services.RuleService, notifier *services.NotificationService) *RuleHandler {
	return &RuleHandler{rules: rules, notifier: notifier}
}

func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.rules.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *RuleHandler) Create(c *gin.Context) {
	var rule models.ApprovalRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rules.Create(&rule, actorFrom(c)); err != nil {
		status := http.StatusInternalServerError
		if isRuleValidationErr(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.notifyRuleChange("Approval rule created", rule.Name)
	c.JSON(http.StatusCreated, rule)
}

func (h *RuleHandler) Update(c *gin.Context) {
	var rule models.ApprovalRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.UUID = c.Param("id")

	if err := h.rules.Update(&rule, actorFrom(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrRuleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		case isRuleValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rule"})
		}
		return
	}

	h.notifyRuleChange("Approval rule updated", rule.Name)
	c.JSON(http.StatusOK, rule)
}

func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.rules.Delete(c.Param("id"), actorFrom(c)); err != nil {
		if errors.Is(err, services.ErrRuleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rule"})
		return
	}

	h.notifyRuleChange("Approval rule deleted", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}

// Audit returns recent policy audit entries.
func (h *RuleHandler) Audit(c *gin.Context) {
	entries, err := h.rules.AuditLog(intQuery(c, "limit", 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *RuleHandler) notifyRuleChange(title, name string) {
	h.notifier.Dispatch([]services.Event{{
		Type:    services.EventRuleChanged,
		Title:   title,
		Message: name,
	}})
}

func isRuleValidationErr(err error) bool {
	return errors.Is(err, services.ErrInvalidRule) ||
		errors.Is(err, services.ErrInvalidOutcome) ||
		errors.Is(err, services.ErrInvalidRiskBand)
}

func actorFrom(c *gin.Context) string {
	if uid, ok := c.Get("userID"); ok {
		if id, ok := uid.(uint); ok {
			return "user:" + strconv.FormatUint(uint64(id), 10)
		}
	}
	return "system"
}
