package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"ougadgets/internal/model"
	"ougadgets/internal/service"
	"ougadgets/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionManager starts, ends and reads admin sessions.
type SessionManager interface {
	Login(w http.ResponseWriter, r *http.Request, admin *model.AdminUser) error
	Logout(w http.ResponseWriter, r *http.Request) error
	Current(r *http.Request) (*session.Identity, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service  service.AuthService
	sessions SessionManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sessions SessionManager) *AuthHandler {
	return &AuthHandler{service: s, sessions: sessions}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		slog.Error("Error during login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	if err := h.sessions.Login(c.Writer, c.Request, admin); err != nil {
		slog.Error("Failed to create session", "admin_id", admin.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    admin,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Writer, c.Request); err != nil {
		slog.Error("Failed to destroy session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Status(c *gin.Context) {
	identity, err := h.sessions.Current(c.Request)
	if err != nil {
		slog.Error("Failed to read session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check session"})
		return
	}
	if identity == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "adminId": identity.AdminID})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/status", h.Status)
	}
}
