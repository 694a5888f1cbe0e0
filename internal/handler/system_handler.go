package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the health check and the CSRF token.
type SystemHandler struct {
	db Pinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}

// CSRFToken hands the masked token to API clients, which echo it back in
// the X-CSRF-Token header on unsafe requests.
func (h *SystemHandler) CSRFToken(c *gin.Context) {
	token := csrf.Token(c.Request)
	c.Header("X-CSRF-Token", token)
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}

// RegisterSystemRoutes registers /health on the engine and /csrf under api.
func (h *SystemHandler) RegisterSystemRoutes(router *gin.Engine, api *gin.RouterGroup) {
	router.GET("/health", h.Health)
	api.GET("/csrf", h.CSRFToken)
}
