package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"skillcheck/logger"
	"skillcheck/services"
)

// ActivityHandler upgrades administrator connections onto the activity feed.
type ActivityHandler struct {
	hub      *services.ActivityHub
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewActivityHandler(hub *services.ActivityHub, allowedOrigins []string, log *logger.Logger) *ActivityHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &ActivityHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		log: log.With("handler", "ActivityHandler"),
	}
}

func (h *ActivityHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.log.Info("activity feed connected", "user_id", userID)
	h.hub.RegisterClient(conn, userID)
}
