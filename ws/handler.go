package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin фильтруется на уровне прокси
	},
}

// WebSocketHandler апгрейдит HTTP-запрос и привязывает клиента к менеджеру
type WebSocketHandler struct {
	manager *WebSocketManager
}

func NewWebSocketHandler(manager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{manager: manager}
}

func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("ws upgrade failed", "user_id", userID)
		return
	}

	client := NewClient(userID, conn, h.manager)
	if !h.manager.add(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
