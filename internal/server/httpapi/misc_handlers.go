package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type feedbackRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	username := c.GetString(usernameKey)

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	if _, err := s.feedback.Create(c.Request.Context(), username, req.Message); err != nil {
		s.logger.Error(c.Request.Context(), "feedback write failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusCreated)
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error(c.Request.Context(), "user count failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	names, err := s.users.Usernames(ctx)
	if err != nil {
		s.logger.Error(c.Request.Context(), "user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "usernames": names})
}
