package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/events"
	"prowork_backend/internal/models"
	"prowork_backend/internal/notify"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/internal/throttle"
	"prowork_backend/pkg/apperrors"
)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []*models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, notification)
	return nil
}

func (r *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Notification
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && record.IsRead {
			continue
		}
		result = append(result, *record)
	}
	return result, int64(len(result)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, record := range r.records {
		if record.ID == notificationID {
			record.IsRead = true
			record.ReadAt = &now
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, record := range r.records {
		if record.UserID == userID {
			record.IsRead = true
			record.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.records {
		if record.UserID == userID && !record.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteReadNotifications(olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.Notification
	var removed int64
	for _, record := range r.records {
		if record.IsRead && record.ReadAt != nil && record.ReadAt.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return removed, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

type fakePrefRepo struct {
	prefs map[string]models.NotificationPreferences
}

func (r *fakePrefRepo) Get(userID string) (models.NotificationPreferences, error) {
	if prefs, ok := r.prefs[userID]; ok {
		return prefs, nil
	}
	return models.DefaultNotificationPreferences(), nil
}

func (r *fakePrefRepo) Replace(userID string, prefs models.NotificationPreferences) error {
	r.prefs[userID] = prefs
	return nil
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []string
}

func (t *recordingTransport) Send(recipient, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, recipient)
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	delivered []notify.Notification
}

func (p *recordingPublisher) Publish(userID string, n notify.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delivered = append(p.delivered, n)
}

type notificationFixture struct {
	service   NotificationService
	repo      *fakeNotificationRepo
	users     *fakeUserRepo
	prefs     *fakePrefRepo
	mail      *recordingTransport
	publisher *recordingPublisher
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	repo := &fakeNotificationRepo{}
	users := &fakeUserRepo{users: map[string]*models.User{
		"rcpt": {BaseModel: models.BaseModel{ID: "rcpt"}, Email: "rcpt@prowork.example"},
	}}
	prefs := &fakePrefRepo{prefs: make(map[string]models.NotificationPreferences)}
	mail := &recordingTransport{}
	publisher := &recordingPublisher{}

	service := NewNotificationService(repo, users, prefs, throttle.NewStore(time.Minute), mail)
	service.SetPublisher(publisher)

	return &notificationFixture{
		service:   service,
		repo:      repo,
		users:     users,
		prefs:     prefs,
		mail:      mail,
		publisher: publisher,
	}
}

func TestIngestMessagePersistsAndPublishes(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "other", ConversationID: "conv-1"})
	require.NoError(t, err)

	require.Len(t, f.repo.records, 1)
	record := f.repo.records[0]
	assert.Equal(t, "rcpt", record.UserID)
	assert.Equal(t, models.NotificationTypeMessage, record.Type)
	assert.Equal(t, "Новое сообщение", record.Title)
	assert.False(t, record.IsRead)

	require.Len(t, f.publisher.delivered, 1)
	assert.Equal(t, record.ID, f.publisher.delivered[0].ID)

	assert.Equal(t, []string{"rcpt@prowork.example"}, f.mail.sent)
}

func TestIngestSuppressesOwnMessage(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "rcpt", ConversationID: "conv-1"})
	require.NoError(t, err)

	assert.Empty(t, f.repo.records)
	assert.Empty(t, f.publisher.delivered)
	assert.Empty(t, f.mail.sent)
}

func TestIngestUnknownRecipient(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.service.Ingest("ghost", events.MessageEvent{SenderID: "other", ConversationID: "conv-1"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestIngestRespectsEmailPreference(t *testing.T) {
	f := newNotificationFixture(t)

	prefs := models.DefaultNotificationPreferences()
	prefs.Email.Messages = false
	f.prefs.prefs["rcpt"] = prefs

	err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "other", ConversationID: "conv-1"})
	require.NoError(t, err)

	assert.Len(t, f.repo.records, 1)
	assert.Empty(t, f.mail.sent)
}

func TestIngestRespectsPushPreference(t *testing.T) {
	f := newNotificationFixture(t)

	prefs := models.DefaultNotificationPreferences()
	prefs.Push.Messages = false
	f.prefs.prefs["rcpt"] = prefs

	err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "other", ConversationID: "conv-1"})
	require.NoError(t, err)

	// In-app запись есть, но на ws-канал ничего не ушло
	assert.Len(t, f.repo.records, 1)
	assert.Empty(t, f.publisher.delivered)
}

func TestIngestThrottlesEmailPerThread(t *testing.T) {
	f := newNotificationFixture(t)

	for i := 0; i < 3; i++ {
		err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "other", ConversationID: "conv-1"})
		require.NoError(t, err)
	}

	// Все три сообщения сохранены, но письмо ушло только первое
	assert.Len(t, f.repo.records, 3)
	assert.Len(t, f.mail.sent, 1)

	// Другой тред - свое окно
	err := f.service.Ingest("rcpt", events.MessageEvent{SenderID: "other", ConversationID: "conv-2"})
	require.NoError(t, err)
	assert.Len(t, f.mail.sent, 2)
}

func TestMarkAsReadOwnership(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.service.Ingest("rcpt", events.BookingEvent{Status: models.BookingStatusApproved, BookingID: "b-1"})
	require.NoError(t, err)
	require.Len(t, f.repo.records, 1)
	id := f.repo.records[0].ID

	err = f.service.MarkAsRead("intruder", id)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPCode)
	assert.False(t, f.repo.records[0].IsRead)

	require.NoError(t, f.service.MarkAsRead("rcpt", id))
	assert.True(t, f.repo.records[0].IsRead)
}

func TestMarkAllAsReadAndUnreadCount(t *testing.T) {
	f := newNotificationFixture(t)

	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "a", ConversationID: "c1"}))
	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "b", ConversationID: "c2"}))

	count, err := f.service.GetUnreadCount("rcpt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, f.service.MarkAllAsRead("rcpt"))

	count, err = f.service.GetUnreadCount("rcpt")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetUserNotificationsPagination(t *testing.T) {
	f := newNotificationFixture(t)

	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "a", ConversationID: "c1"}))
	require.NoError(t, f.service.Ingest("rcpt", events.BookingEvent{Status: models.BookingStatusDeclined, BookingID: "b-1"}))

	resp, err := f.service.GetUserNotifications("rcpt", dto.NotificationCriteria{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.PageSize)
}

func TestSweepReadNotifications(t *testing.T) {
	f := newNotificationFixture(t)

	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "a", ConversationID: "c1"}))
	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "b", ConversationID: "c2"}))
	require.Len(t, f.repo.records, 2)

	require.NoError(t, f.service.MarkAsRead("rcpt", f.repo.records[0].ID))

	// Непрочитанные и свежепрочитанные переживают чистку
	removed, err := f.service.SweepReadNotifications(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, f.repo.records, 2)

	// Прочитанное старше срока хранения удаляется, непрочитанное остается
	removed, err = f.service.SweepReadNotifications(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	require.Len(t, f.repo.records, 1)
	assert.False(t, f.repo.records[0].IsRead)
}

func TestSweepThrottle(t *testing.T) {
	f := newNotificationFixture(t)

	require.NoError(t, f.service.Ingest("rcpt", events.MessageEvent{SenderID: "a", ConversationID: "c1"}))

	removed := f.service.SweepThrottle(time.Now().Add(48 * time.Hour))
	assert.Equal(t, 1, removed)
}
