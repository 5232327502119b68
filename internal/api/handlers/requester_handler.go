package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/services"
)

type RequesterHandler struct {
	requesters *services.RequesterService
}

func NewRequesterHandler(requesters *services.RequesterService) *RequesterHandler {
	return &RequesterHandler{requesters: requesters}
}

func (h *RequesterHandler) List(c *gin.Context) {
	requesters, err := h.requesters.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requesters"})
		return
	}
	c.JSON(http.StatusOK, requesters)
}

func (h *RequesterHandler) Get(c *gin.Context) {
	requester, err := h.requesters.Resolve(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRequesterNotFound) || errors.Is(err, services.ErrRequesterDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch requester"})
		return
	}
	c.JSON(http.StatusOK, requester)
}

type RequesterRequestBody struct {
	Name       string `json:"name" binding:"required"`
	TrustLevel int    `json:"trust_level"`
	Enabled    *bool  `json:"enabled"`
}

func (h *RequesterHandler) Create(c *gin.Context) {
	var req RequesterRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requester := models.Requester{Name: req.Name, TrustLevel: req.TrustLevel, Enabled: true}
	if req.Enabled != nil {
		requester.Enabled = *req.Enabled
	}

	if err := h.requesters.Create(&requester); err != nil {
		if errors.Is(err, services.ErrInvalidTrustLevel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create requester"})
		return
	}
	c.JSON(http.StatusCreated, requester)
}

func (h *RequesterHandler) Update(c *gin.Context) {
	var req RequesterRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var requester models.Requester
	if err := h.requesters.DB.Where("uuid = ?", c.Param("id")).First(&requester).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "requester not found"})
		return
	}

	requester.Name = req.Name
	requester.TrustLevel = req.TrustLevel
	if req.Enabled != nil {
		requester.Enabled = *req.Enabled
	}

	if err := h.requesters.Update(&requester); err != nil {
		if errors.Is(err, services.ErrInvalidTrustLevel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update requester"})
		return
	}
	c.JSON(http.StatusOK, requester)
}

func (h *RequesterHandler) Delete(c *gin.Context) {
	if err := h.requesters.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrRequesterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "requester not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete requester"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "requester deleted"})
}
