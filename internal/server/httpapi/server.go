// Package httpapi exposes the server's JSON API over gin: authentication,
// the session directory, message threads, conversation turns, feedback,
// and a minimal admin surface.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangpi/chatvault/internal/logging"
	"github.com/sangpi/chatvault/internal/server/config"
	"github.com/sangpi/chatvault/internal/server/feedback"
	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/messages"
	"github.com/sangpi/chatvault/internal/server/users"
)

// UserService is the slice of the users service the HTTP layer depends on.
type UserService interface {
	Register(ctx context.Context, username string, password []byte) (*users.User, error)
	Login(ctx context.Context, username string, password []byte) (*users.TokenPair, error)
	Resume(ctx context.Context, resumeToken string) (string, *users.TokenPair, error)
	Logout(ctx context.Context, resumeToken string) error
	Count(ctx context.Context) (int64, error)
	Usernames(ctx context.Context) ([]string, error)
}

// MessageService covers thread reads and session lifecycle.
type MessageService interface {
	Thread(ctx context.Context, username, sessionID string) ([]messages.Message, error)
	DeleteSession(ctx context.Context, username, sessionID string) error
	DeleteAll(ctx context.Context, username string) error
	ListSessions(ctx context.Context, username string, limit int) ([]messages.SessionInfo, error)
}

// ChatService runs conversation turns.
type ChatService interface {
	NewSessionID() string
	SendTurn(ctx context.Context, username, sessionID, text string, att *gen.Attachment) (string, error)
}

// FeedbackStore appends feedback notes.
type FeedbackStore interface {
	Create(ctx context.Context, username, message string) (*feedback.Note, error)
}

// Server holds the handler dependencies and builds the gin router.
type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	users    UserService
	messages MessageService
	chat     ChatService
	feedback FeedbackStore
}

func NewServer(cfg *config.Config, logger logging.Logger,
	us UserService, ms MessageService, cs ChatService, fs FeedbackStore) *Server {
	return &Server{cfg: cfg, logger: logger, users: us, messages: ms, chat: cs, feedback: fs}
}

// Router assembles the route table. Everything under /api except the auth
// endpoints requires a bearer access token.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/resume", s.handleResume)
		authGroup.POST("/logout", s.handleLogout)
	}

	api := r.Group("/api", s.authMiddleware())
	{
		api.GET("/sessions", s.handleListSessions)
		api.POST("/sessions", s.handleNewSession)
		api.DELETE("/sessions", s.handleDeleteAllSessions)
		api.DELETE("/sessions/:id", s.handleDeleteSession)
		api.GET("/sessions/:id/messages", s.handleThread)
		api.POST("/sessions/:id/messages", s.handleSendTurn)
		api.POST("/feedback", s.handleFeedback)
		api.GET("/admin/users", s.adminOnly(), s.handleAdminUsers)
	}

	return r
}
