// Package rest exposes the HTTP API: authentication, user directory,
// conversation and message CRUD, uploads and health. Every handler is a
// thin wrapper over the same repositories and delivery pipeline the
// socket layer uses.
package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goerrors "errors"

	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/realtime"
	"chat-relay/repositories"
	"chat-relay/services"
	"chat-relay/storage"
)

type Server struct {
	log           *slog.Logger
	authService   services.IAuthService
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	delivery      *realtime.DeliveryPipeline
	controller    *realtime.Controller
	uploads       *storage.DiskStore
	issuer        auth.TokenIssuer
	startedAt     time.Time
}

func NewServer(
	log *slog.Logger,
	authService services.IAuthService,
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	delivery *realtime.DeliveryPipeline,
	controller *realtime.Controller,
	uploads *storage.DiskStore,
	issuer auth.TokenIssuer,
) *Server {
	return &Server{
		log:           log,
		authService:   authService,
		users:         users,
		conversations: conversations,
		messages:      messages,
		delivery:      delivery,
		controller:    controller,
		uploads:       uploads,
		issuer:        issuer,
		startedAt:     time.Now(),
	}
}

// Router assembles the gin engine. The websocket upgrade handler is
// injected so this package stays free of transport details.
func (s *Server) Router(wsHandler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)
	router.Static("/uploads", s.uploads.Dir())

	api := router.Group("/api")
	{
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)

		authed := api.Group("", auth.Middleware(s.issuer))
		{
			authed.GET("/auth/me", s.me)
			authed.GET("/users", s.listUsers)
			authed.GET("/users/search", s.searchUsers)
			authed.POST("/conversations", s.createPrivateConversation)
			authed.POST("/conversations/group", s.createGroupConversation)
			authed.GET("/conversations", s.listConversations)
			authed.POST("/messages", s.sendMessage)
			authed.GET("/messages/:conversationId", s.getMessages)
			authed.POST("/upload", s.uploadFile)
		}
	}

	router.GET("/ws", auth.Middleware(s.issuer), wsHandler)
	return router
}

// fail maps the error taxonomy to HTTP statuses and emits the uniform
// error body the clients expect.
func (s *Server) fail(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case goerrors.Is(err, errors.ErrValidation), goerrors.Is(err, errors.ErrInvalidPassword):
		status = http.StatusBadRequest
	case goerrors.Is(err, errors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case goerrors.Is(err, errors.ErrNotParticipant):
		status = http.StatusForbidden
	case goerrors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case goerrors.Is(err, errors.ErrUserAlreadyExists):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Error(message, "error", err)
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

func currentUserID(c *gin.Context) string {
	return c.GetString(auth.UserIDKey)
}
