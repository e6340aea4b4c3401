package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/models"
)

func makeNotification(id string) Notification {
	return Notification{
		ID:        id,
		Type:      models.NotificationTypeMessage,
		Title:     "Новое сообщение",
		Timestamp: time.Now(),
	}
}

func TestStore_AppendNewestFirst(t *testing.T) {
	t.Parallel()

	s := NewStore()
	for i := 1; i <= 3; i++ {
		s.Append(makeNotification(fmt.Sprintf("n%d", i)))
	}

	items := s.Notifications()
	require.Len(t, items, 3)
	assert.Equal(t, "n3", items[0].ID)
	assert.Equal(t, "n2", items[1].ID)
	assert.Equal(t, "n1", items[2].ID)
}

func TestStore_MarkAsRead(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(makeNotification("n1"))
	s.Append(makeNotification("n2"))
	assert.Equal(t, 2, s.UnreadCount())

	assert.True(t, s.MarkAsRead("n1"))
	assert.Equal(t, 1, s.UnreadCount())

	// Повторно и для неизвестного id - no-op
	assert.False(t, s.MarkAsRead("n1"))
	assert.False(t, s.MarkAsRead("missing"))
	assert.Equal(t, 1, s.UnreadCount())
}

func TestStore_MarkAllAsReadIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(makeNotification("n1"))
	s.Append(makeNotification("n2"))

	s.MarkAllAsRead()
	assert.Equal(t, 0, s.UnreadCount())

	s.MarkAllAsRead()
	assert.Equal(t, 0, s.UnreadCount())
}

func TestStore_NotificationsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Append(makeNotification("n1"))

	items := s.Notifications()
	items[0].Read = true

	assert.Equal(t, 1, s.UnreadCount())
}

func TestStore_Subscribe(t *testing.T) {
	t.Parallel()

	s := NewStore()

	var received []string
	unsubscribe := s.Subscribe(func(n Notification) {
		received = append(received, n.ID)
	})

	s.Append(makeNotification("n1"))
	s.Append(makeNotification("n2"))
	assert.Equal(t, []string{"n1", "n2"}, received)

	unsubscribe()
	s.Append(makeNotification("n3"))
	assert.Equal(t, []string{"n1", "n2"}, received)
}
