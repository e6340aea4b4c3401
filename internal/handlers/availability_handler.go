package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"
	"prowork_backend/internal/services"
	"prowork_backend/internal/services/dto"
	"prowork_backend/internal/validator"
	"prowork_backend/pkg/apperrors"
)

// AvailabilityHandler - HTTP поверхность статуса доступности провайдера
type AvailabilityHandler struct {
	service   services.AvailabilityService
	validator *validator.Validator
}

func NewAvailabilityHandler(service services.AvailabilityService, v *validator.Validator) *AvailabilityHandler {
	return &AvailabilityHandler{
		service:   service,
		validator: v,
	}
}

func (h *AvailabilityHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/availability")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.GetAvailability)
		group.PUT("/status", h.SetStatus)
		group.POST("/away", h.ScheduleAway)
		group.DELETE("/away", h.EndAway)
	}

	// Публичное чтение статуса другого провайдера
	api.GET("/providers/:id/availability", h.GetProviderAvailability)
}

func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.service.GetAvailability(userID, time.Now())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) GetProviderAvailability(c *gin.Context) {
	resp, err := h.service.GetAvailability(c.Param("id"), time.Now())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.SetStatus(userID, models.AvailabilityState(req.Status))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) ScheduleAway(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ScheduleAwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.ScheduleAway(userID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) EndAway(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.service.EndAway(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
