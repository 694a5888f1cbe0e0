package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"ougadgets/internal/catalog"
	"ougadgets/internal/model"
	"ougadgets/internal/service"

	"github.com/gin-gonic/gin"
)

// PhoneHandler handles catalog requests
type PhoneHandler struct {
	service service.PhoneService
}

// NewPhoneHandler creates a new PhoneHandler
func NewPhoneHandler(s service.PhoneService) *PhoneHandler {
	return &PhoneHandler{service: s}
}

var filterParams = []string{"search", "brand", "minRam", "maxPrice", "sortBy"}

// parseFilter returns nil when no filter parameter was sent. Unlike the
// storefront's filter bar, an omitted maxPrice means no cap.
func parseFilter(c *gin.Context) (*catalog.FilterState, error) {
	present := false
	for _, p := range filterParams {
		if _, ok := c.GetQuery(p); ok {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	f := catalog.FilterState{
		Search:   c.Query("search"),
		Brand:    c.DefaultQuery("brand", catalog.AllBrands),
		MaxPrice: catalog.NoPriceCap,
		SortBy:   catalog.ParseSortBy(c.Query("sortBy")),
	}
	if v := c.Query("minRam"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("minRam must be an integer")
		}
		f.MinRAM = n
	}
	if v := c.Query("maxPrice"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("maxPrice must be an integer")
		}
		f.MaxPrice = n
	}
	return &f, nil
}

func (h *PhoneHandler) GetPhones(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	phones, err := h.service.ListPhones(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Error listing phones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch phones"})
		return
	}
	c.JSON(http.StatusOK, phones)
}

func (h *PhoneHandler) GetPhone(c *gin.Context) {
	phone, err := h.service.GetPhone(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch phone")
		return
	}
	c.JSON(http.StatusOK, phone)
}

func (h *PhoneHandler) CreatePhone(c *gin.Context) {
	var req model.CreatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	phone, err := h.service.CreatePhone(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to create phone")
		return
	}
	c.JSON(http.StatusCreated, phone)
}

func (h *PhoneHandler) UpdatePhone(c *gin.Context) {
	var req model.UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	phone, err := h.service.UpdatePhone(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Failed to update phone")
		return
	}
	c.JSON(http.StatusOK, phone)
}

func (h *PhoneHandler) DeletePhone(c *gin.Context) {
	if err := h.service.DeletePhone(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete phone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Phone deleted successfully"})
}

func (h *PhoneHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPhoneNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Phone not found"})
	case errors.Is(err, service.ErrPhoneExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Phone already exists"})
	default:
		slog.Error(fallback, "phone_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterPhoneRoutes registers catalog routes. Reads are public; writes go
// through authMW.
func (h *PhoneHandler) RegisterPhoneRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	phones := rg.Group("/phones")
	{
		phones.GET("", h.GetPhones)
		phones.GET("/:id", h.GetPhone)

		protected := phones.Group("")
		protected.Use(authMW...)
		{
			protected.POST("", h.CreatePhone)
			protected.PUT("/:id", h.UpdatePhone)
			protected.DELETE("/:id", h.DeletePhone)
		}
	}
}
