package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prowork_backend/internal/events"
	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"
	"prowork_backend/internal/services"
	"prowork_backend/internal/services/dto"
	"prowork_backend/internal/validator"
	"prowork_backend/pkg/apperrors"
)

// NotificationHandler - HTTP поверхность уведомлений: чтение ленты,
// отметки о прочтении и служебный ingest доменных событий.
type NotificationHandler struct {
	service   services.NotificationService
	validator *validator.Validator
}

func NewNotificationHandler(service services.NotificationService, v *validator.Validator) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		validator: v,
	}
}

func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/notifications")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.GetNotifications)
		group.GET("/unread-count", h.GetUnreadCount)
		group.PUT("/:id/read", h.MarkAsRead)
		group.PUT("/read-all", h.MarkAllAsRead)
	}

	// Ingest доменных событий. В проде сюда ходят внутренние сервисы
	// (чат, бронирования), поэтому маршрут закрыт админской ролью.
	ingest := api.Group("/events")
	ingest.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		ingest.POST("/message", h.IngestMessage)
		ingest.POST("/booking", h.IngestBooking)
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var criteria dto.NotificationCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.GetUserNotifications(userID, criteria)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.service.GetUnreadCount(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.MarkAsRead(userID, c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.MarkAllAsRead(userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) IngestMessage(c *gin.Context) {
	var req dto.IngestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	err := h.service.Ingest(req.RecipientID, events.MessageEvent{
		SenderID:       req.SenderID,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *NotificationHandler) IngestBooking(c *gin.Context) {
	var req dto.IngestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		apperrors.HandleValidationError(c, err)
		return
	}

	err := h.service.Ingest(req.RecipientID, events.BookingEvent{
		Status:    models.BookingStatus(req.Status),
		BookingID: req.BookingID,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
