package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"prowork_backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client - одно WebSocket-соединение пользователя
type Client struct {
	UserID  string
	Conn    *websocket.Conn
	Send    chan NotificationMessage
	manager *WebSocketManager
}

func NewClient(userID string, conn *websocket.Conn, manager *WebSocketManager) *Client {
	return &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan NotificationMessage, 16),
		manager: manager,
	}
}

// ReadPump читает входящие кадры только ради контроля соединения:
// клиент по этому каналу ничего не отправляет.
func (c *Client) ReadPump() {
	defer func() {
		c.manager.drop(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

// WritePump сериализует уведомления в соединение и поддерживает ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Warn("ws write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
