package ws

import (
	"context"
	"sync"
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/notify"
)

// NotificationMessage - кадр, уходящий на клиент по WebSocket
type NotificationMessage struct {
	Kind         string            `json:"kind"` // всегда "notification"
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Timestamp    time.Time         `json:"timestamp"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// WebSocketManager раздает in-app уведомления по живым соединениям.
// У пользователя может быть несколько вкладок - несколько клиентов.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{} // userID -> клиенты
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // закрыт после остановки Run
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов до отмены контекста
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(manager.done)
			manager.closeAll()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]struct{})
			}
			manager.clients[client.UserID][client] = struct{}{}
			manager.mu.Unlock()
			logger.Info("ws client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if set, ok := manager.clients[client.UserID]; ok {
				if _, exists := set[client]; exists {
					close(client.Send)
					delete(set, client)
					if len(set) == 0 {
						delete(manager.clients, client.UserID)
					}
				}
			}
			manager.mu.Unlock()
			logger.Info("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// Publish реализует services.NotificationPublisher: доставляет уведомление
// на все соединения пользователя. Переполненный канал - клиент отключается.
func (manager *WebSocketManager) Publish(userID string, n notify.Notification) {
	message := NotificationMessage{
		Kind:        "notification",
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Description: n.Description,
		Timestamp:   n.Timestamp,
		Metadata:    n.Metadata,
	}

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.clients[userID] {
		select {
		case client.Send <- message:
		default:
			go manager.drop(client)
		}
	}
}

// drop снимает клиента с регистрации. После остановки Run никто не читает
// unregister, поэтому отправка защищена done-каналом.
func (manager *WebSocketManager) drop(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// add регистрирует клиента; после остановки Run регистрация отклоняется
func (manager *WebSocketManager) add(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for userID, set := range manager.clients {
		for client := range set {
			close(client.Send)
		}
		delete(manager.clients, userID)
	}
}
