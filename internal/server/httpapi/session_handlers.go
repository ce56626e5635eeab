package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/server/gen"
)

type sessionResponse struct {
	SessionID    string    `json:"session_id"`
	LastActivity time.Time `json:"last_activity"`
}

func (s *Server) handleListSessions(c *gin.Context) {
	username := c.GetString(usernameKey)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	sessions, err := s.messages.ListSessions(c.Request.Context(), username, limit)
	if err != nil {
		s.logger.Error(c.Request.Context(), "session listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, sessionResponse{SessionID: sess.SessionID, LastActivity: sess.LastActivity})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}

func (s *Server) handleNewSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": s.chat.NewSessionID()})
}

func (s *Server) handleDeleteAllSessions(c *gin.Context) {
	username := c.GetString(usernameKey)
	if err := s.messages.DeleteAll(c.Request.Context(), username); err != nil {
		s.logger.Error(c.Request.Context(), "history deletion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	username := c.GetString(usernameKey)
	if err := s.messages.DeleteSession(c.Request.Context(), username, c.Param("id")); err != nil {
		s.logger.Error(c.Request.Context(), "session deletion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

type messageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleThread(c *gin.Context) {
	username := c.GetString(usernameKey)

	msgs, err := s.messages.Thread(c.Request.Context(), username, c.Param("id"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "thread read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

type sendTurnRequest struct {
	Text       string `json:"text"`
	Attachment *struct {
		MIMEType string `json:"mime_type"`
		Data     string `json:"data"`
	} `json:"attachment"`
}

func (s *Server) handleSendTurn(c *gin.Context) {
	username := c.GetString(usernameKey)

	var req sendTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}

	var att *gen.Attachment
	if req.Attachment != nil {
		data, err := base64.StdEncoding.DecodeString(req.Attachment.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attachment data must be base64"})
			return
		}
		att = &gen.Attachment{MIMEType: req.Attachment.MIMEType, Data: data}
	}

	reply, err := s.chat.SendTurn(c.Request.Context(), username, c.Param("id"), req.Text, att)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrGenerationUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation backend unavailable"})
		case errors.Is(err, common.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			s.logger.Error(c.Request.Context(), "conversation turn failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
