package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/models"
	"prowork_backend/internal/notify"
)

func waitRegistered(t *testing.T, m *WebSocketManager, userID string, count int) {
	t.Helper()
	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.clients[userID]) == count
	}, time.Second, 10*time.Millisecond)
}

func TestPublishDeliversToUserClients(t *testing.T) {
	m := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	client := NewClient("u1", nil, m)
	require.True(t, m.add(client))
	waitRegistered(t, m, "u1", 1)

	m.Publish("u1", notify.Notification{
		ID:        "n1",
		Type:      models.NotificationTypeMessage,
		Title:     "Новое сообщение",
		Timestamp: time.Now(),
	})

	select {
	case msg := <-client.Send:
		assert.Equal(t, "notification", msg.Kind)
		assert.Equal(t, "n1", msg.ID)
		assert.Equal(t, "message", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}

	// Чужой пользователь ничего не получает
	m.Publish("u2", notify.Notification{ID: "n2"})
	select {
	case <-client.Send:
		t.Fatal("unexpected delivery")
	default:
	}
}

func TestShutdownUnblocksRegistration(t *testing.T) {
	m := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)

	client := NewClient("u1", nil, m)
	require.True(t, m.add(client))
	waitRegistered(t, m, "u1", 1)

	cancel()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}

	// Снятие с регистрации после остановки не должно висеть
	finished := make(chan struct{})
	go func() {
		m.drop(client)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after shutdown")
	}

	// Новые клиенты после остановки отклоняются
	assert.False(t, m.add(NewClient("u2", nil, m)))
}
