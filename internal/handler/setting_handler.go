package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"ougadgets/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingHandler handles platform settings requests
type SettingHandler struct {
	service service.SettingService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		slog.Error("Error getting settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), values)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettingKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Setting keys must not be empty"})
			return
		}
		slog.Error("Error updating settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RegisterSettingRoutes registers settings routes
func (h *SettingHandler) RegisterSettingRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	rg.GET("/settings", h.GetSettings)
	handlers := append([]gin.HandlerFunc{}, authMW...)
	rg.PUT("/settings", append(handlers, h.UpdateSettings)...)
}
