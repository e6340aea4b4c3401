package services

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/datatypes"

	"prowork_backend/internal/events"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/notify"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/internal/throttle"
	"prowork_backend/pkg/apperrors"
)

// NotificationPublisher доставляет новое уведомление на push-поверхность
// (ws-соединения пользователя). Реализуется менеджером WebSocket.
type NotificationPublisher interface {
	Publish(userID string, notification notify.Notification)
}

type NotificationService interface {
	// Ingest прогоняет доменное событие через роутер для одного получателя:
	// настройки, self-suppression, in-app запись, троттлинг email.
	Ingest(recipientID string, event events.Event) error

	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// SetPublisher подключает push-поверхность. Вызывается один раз при сборке.
	SetPublisher(pub NotificationPublisher)

	// SweepThrottle чистит устаревшие ключи троттлинга (фоновый воркер)
	SweepThrottle(now time.Time) int

	// SweepReadNotifications физически удаляет давно прочитанные
	// уведомления (фоновый воркер)
	SweepReadNotifications(olderThan time.Time) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	prefRepo         repositories.PreferenceRepository

	router        *notify.Router
	throttleStore *throttle.Store

	mu     sync.Mutex
	stores map[string]*notify.Store

	pubMu     sync.RWMutex
	publisher NotificationPublisher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	prefRepo repositories.PreferenceRepository,
	throttleStore *throttle.Store,
	mail notify.MailTransport,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		prefRepo:         prefRepo,
		router:           notify.NewRouter(throttleStore, mail, logger.GetLogger()),
		throttleStore:    throttleStore,
		stores:           make(map[string]*notify.Store),
	}
}

func (s *notificationService) SetPublisher(pub NotificationPublisher) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.publisher = pub
}

// storeFor лениво создает in-memory store пользователя и подписывает на него
// персистенс и push: все, что роутер кладет в store, попадает в базу и в ws.
func (s *notificationService) storeFor(userID string) *notify.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[userID]; ok {
		return store
	}

	store := notify.NewStore()
	store.Subscribe(func(n notify.Notification) {
		s.persistNotification(userID, n)
		s.publishNotification(userID, n)
	})
	s.stores[userID] = store
	return store
}

func (s *notificationService) persistNotification(userID string, n notify.Notification) {
	var dataJSON datatypes.JSON
	if len(n.Metadata) > 0 {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			logger.Warn("marshal notification metadata failed", "error", err.Error())
		} else {
			dataJSON = datatypes.JSON(raw)
		}
	}

	record := &models.Notification{
		BaseModel: models.BaseModel{ID: n.ID, CreatedAt: n.Timestamp},
		UserID:    userID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Description,
		Data:      dataJSON,
		IsRead:    false,
	}

	if err := s.notificationRepo.CreateNotification(record); err != nil {
		logger.Error("persist notification failed", "user_id", userID, "notification_id", n.ID, "error", err.Error())
	}
}

func (s *notificationService) publishNotification(userID string, n notify.Notification) {
	s.pubMu.RLock()
	pub := s.publisher
	s.pubMu.RUnlock()
	if pub == nil {
		return
	}

	// Push-канал имеет свой столбец в матрице настроек
	prefs, err := s.prefRepo.Get(userID)
	if err == nil && !prefs.PushEnabled(categoryForType(n.Type)) {
		return
	}

	pub.Publish(userID, n)
}

func categoryForType(t models.NotificationType) models.NotificationCategory {
	if t == models.NotificationTypeMessage {
		return models.CategoryMessages
	}
	return models.CategoryTasks
}

func (s *notificationService) Ingest(recipientID string, event events.Event) error {
	user, err := s.userRepo.FindByID(recipientID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	prefs, err := s.prefRepo.Get(recipientID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.router.Ingest(s.storeFor(recipientID), event, recipientID, user.Email, prefs, time.Now())
	return nil
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	page := repoCriteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := repoCriteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    calculateTotalPages(total, pageSize),
	}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.New(apperrors.CodeForbidden, "notifications", "Access denied", 403)
	}

	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}

	// Синхронизируем сессионный store, если он поднят
	s.mu.Lock()
	store, ok := s.stores[userID]
	s.mu.Unlock()
	if ok {
		store.MarkAsRead(notificationID)
	}

	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}

	s.mu.Lock()
	store, ok := s.stores[userID]
	s.mu.Unlock()
	if ok {
		store.MarkAllAsRead()
	}

	return nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) SweepThrottle(now time.Time) int {
	return s.throttleStore.Sweep(now, 24*time.Hour)
}

func (s *notificationService) SweepReadNotifications(olderThan time.Time) (int64, error) {
	removed, err := s.notificationRepo.DeleteReadNotifications(olderThan)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return removed, nil
}

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
