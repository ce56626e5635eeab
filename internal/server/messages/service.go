package messages

import (
	"context"
	"fmt"

	"github.com/sangpi/chatvault/internal/server/config"
)

// Service wraps the message repository with role validation, thread
// isolation, and the session-directory read projection.
type Service struct {
	repo             Repository
	sessionListLimit int
}

// NewService constructs a Service using a repository and server config.
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:             repo,
		sessionListLimit: cfg.SessionListLimit,
	}
}

// Append stores one turn. Only the stored role vocabulary is accepted;
// content is an opaque payload with no length cap here.
func (s *Service) Append(ctx context.Context, sessionID, username, role, content string) (*Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	return s.repo.Append(ctx, &Message{
		SessionID: sessionID,
		Username:  username,
		Role:      role,
		Content:   content,
	})
}

// Thread returns the ordered messages of a session. A session owned by a
// different user reads as empty, the same as a session that never existed,
// so session ids cannot be probed across users.
func (s *Service) Thread(ctx context.Context, username, sessionID string) ([]Message, error) {
	msgs, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 && msgs[0].Username != username {
		return nil, nil
	}
	return msgs, nil
}

// DeleteSession removes a user's session thread. Deleting a session that
// does not exist, or that belongs to someone else, is a no-op.
func (s *Service) DeleteSession(ctx context.Context, username, sessionID string) error {
	msgs, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(msgs) == 0 || msgs[0].Username != username {
		return nil
	}
	return s.repo.DeleteSession(ctx, sessionID)
}

// DeleteAll removes every message the user owns, across all sessions.
func (s *Service) DeleteAll(ctx context.Context, username string) error {
	return s.repo.DeleteAllForUser(ctx, username)
}

// ListSessions returns the user's session directory, most recently active
// first. A non-positive limit falls back to the configured default.
func (s *Service) ListSessions(ctx context.Context, username string, limit int) ([]SessionInfo, error) {
	if limit <= 0 {
		limit = s.sessionListLimit
	}
	return s.repo.ListSessions(ctx, username, limit)
}
