package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"chat-relay/realtime"
)

// Server upgrades HTTP requests to websocket sessions and binds each one
// to the connection lifecycle controller.
type Server struct {
	log        *slog.Logger
	controller *realtime.Controller
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewServer(log *slog.Logger, controller *realtime.Controller, allowedOrigins []string, sendBuffer int) *Server {
	return &Server{
		log:        log,
		controller: controller,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				return lo.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Handle is the gin endpoint for /ws. The auth middleware already
// verified the token; from here on the client speaks the socket protocol
// and announces its own identity with user:online.
func (s *Server) Handle(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	client := newClient(connID, conn, s.sendBuffer, s.log)

	s.controller.Connect(connID, client)
	go client.writePump()

	// Blocks for the lifetime of the connection. A reconnect arrives as
	// a brand-new connection with a fresh ID.
	client.readPump(func(raw []byte) {
		s.controller.HandleFrame(c.Request.Context(), connID, raw)
	})

	s.controller.Disconnect(connID)
}
