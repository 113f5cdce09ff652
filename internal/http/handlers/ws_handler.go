package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/services-marketplace/internal/http/middleware"
	"github.com/ignatzorin/services-marketplace/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/ws.
// Идентичность берётся только из заголовка шлюза: подписка на чужой
// поток уведомлений через query-параметры недопустима.
func (h *WSHandler) Handle(c *gin.Context) {
	raw := c.GetHeader(middleware.HeaderUserID)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "идентификатор пользователя обязателен"})
		return
	}

	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "невалидный идентификатор пользователя"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(conn, h.hub, userID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
