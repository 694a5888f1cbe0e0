package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ougadgets/internal/catalog"
	"ougadgets/internal/middleware"
	"ougadgets/internal/model"
	"ougadgets/internal/service"

	"github.com/gin-gonic/gin"
)

// MaxImportSize caps CSV uploads.
const MaxImportSize = 5 * 1024 * 1024

// AdminHandler handles back-office requests for the signed-in admin
type AdminHandler struct {
	profiles service.ProfileService
	phones   service.PhoneService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(profiles service.ProfileService, phones service.PhoneService) *AdminHandler {
	return &AdminHandler{profiles: profiles, phones: phones}
}

func (h *AdminHandler) GetProfile(c *gin.Context) {
	admin, err := h.profiles.GetProfile(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		h.respondProfileError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	admin, err := h.profiles.UpdateProfile(c.Request.Context(), middleware.AdminID(c), req)
	if err != nil {
		h.respondProfileError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.profiles.ChangePassword(c.Request.Context(), middleware.AdminID(c), req); err != nil {
		h.respondProfileError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *AdminHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required: " + err.Error()})
		return
	}

	admin, err := h.profiles.UploadAvatar(c.Request.Context(), middleware.AdminID(c), file)
	if err != nil {
		h.respondProfileError(c, err, "Failed to upload avatar")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) respondProfileError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found"})
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
	case errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
	case errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at most 72 bytes"})
	case errors.Is(err, service.ErrInvalidFileFormat), errors.Is(err, service.ErrFileSizeExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error(fallback, "admin_id", middleware.AdminID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.phones.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Error getting dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ExportPhones(c *gin.Context) {
	buf, err := h.phones.ExportCSV(c.Request.Context())
	if err != nil {
		slog.Error("Error exporting phones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export phones"})
		return
	}

	fileName := fmt.Sprintf("phones_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *AdminHandler) PhonesTemplate(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=phones_template.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(catalog.CSVTemplate()))
}

func (h *AdminHandler) ImportPhones(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required: " + err.Error()})
		return
	}
	if file.Size > MaxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrFileSizeExceeded.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("Failed to open CSV upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import phones"})
		return
	}
	defer src.Close()

	phones, err := h.phones.ImportCSV(c.Request.Context(), src)
	if err != nil {
		var csvErr *catalog.CSVError
		switch {
		case errors.As(err, &csvErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": csvErr.Error(), "line": csvErr.Line, "column": csvErr.Column})
		case errors.Is(err, service.ErrPhoneExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			slog.Error("Error importing phones", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import phones"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Imported %d phones", len(phones)),
		"count":   len(phones),
		"phones":  phones,
	})
}

// RegisterAdminRoutes registers back-office routes behind mw.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(mw...)
	{
		admin.GET("/profile", h.GetProfile)
		admin.PATCH("/profile", h.UpdateProfile)
		admin.POST("/change-password", h.ChangePassword)
		admin.POST("/avatar", h.UploadAvatar)
		admin.GET("/stats", h.GetStats)
		admin.GET("/phones/export", h.ExportPhones)
		admin.GET("/phones/template", h.PhonesTemplate)
		admin.POST("/phones/import", h.ImportPhones)
	}
}
