package rest

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Server is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
		"goroutines":  runtime.NumGoroutine(),
		"connections": s.controller.ConnectionCount(),
		"online":      len(s.controller.OnlineIdentities()),
	})
}
