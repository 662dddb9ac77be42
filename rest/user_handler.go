package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"chat-relay/domain"
)

const searchLimit = 10

// listUsers returns the whole directory except the caller, with the live
// presence view overlaid on the stored snapshot.
func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.ListUsers(currentUserID(c))
	if err != nil {
		s.fail(c, err, "Error fetching users")
		return
	}
	publicUsers := s.withPresence(users)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(publicUsers),
		"users":   publicUsers,
	})
}

func (s *Server) searchUsers(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Search query is required"})
		return
	}

	users, err := s.users.SearchUsers(query, currentUserID(c), searchLimit)
	if err != nil {
		s.fail(c, err, "Error searching users")
		return
	}
	publicUsers := s.withPresence(users)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(publicUsers),
		"users":   publicUsers,
	})
}

func (s *Server) withPresence(users []domain.User) []domain.PublicUser {
	return lo.Map(users, func(user domain.User, _ int) domain.PublicUser {
		public := user.Public()
		if s.controller != nil {
			public.IsOnline = s.controller.IsOnline(user.ID)
		}
		return public
	})
}
