package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"
	"prowork_backend/internal/services"
	"prowork_backend/pkg/apperrors"
)

// PreferenceHandler - HTTP поверхность настроек уведомлений
type PreferenceHandler struct {
	service services.PreferenceService
}

func NewPreferenceHandler(service services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

func (h *PreferenceHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/notification-preferences")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.GetPreferences)
		group.PUT("", h.UpdatePreferences)
	}
}

func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	prefs, err := h.service.GetPreferences(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences принимает матрицу настроек целиком (PUT-замена)
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var prefs models.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	if err := h.service.UpdatePreferences(userID, prefs); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}
