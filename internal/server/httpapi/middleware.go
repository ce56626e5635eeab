package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangpi/chatvault/internal/server/auth"
)

const usernameKey = "username"

// authMiddleware validates the bearer access token and stores the username
// in the request context. Missing, malformed, expired, and forged tokens
// all answer 401 without detail.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		username, err := auth.GetUsernameFromToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// adminOnly gates a route to the configured admin account. With no admin
// configured the route answers 404 for everyone, so it does not advertise
// its existence.
func (s *Server) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminUsername == "" || c.GetString(usernameKey) != s.cfg.AdminUsername {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Next()
	}
}
