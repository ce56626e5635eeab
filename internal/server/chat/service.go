package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/logging"
	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/messages"
)

// Service orchestrates a conversation turn: it persists the user's message,
// assembles the session context, calls the generation backend and persists
// the reply.
type Service struct {
	repo       messages.Repository
	generator  gen.Generator
	genTimeout time.Duration
	logger     logging.Logger
}

func NewService(repo messages.Repository, generator gen.Generator,
	genTimeout time.Duration, logger logging.Logger) *Service {
	return &Service{repo: repo, generator: generator, genTimeout: genTimeout, logger: logger}
}

// NewSessionID mints a fresh session identifier. Nothing is stored; a
// session exists only once its first message lands in the log.
func (s *Service) NewSessionID() string {
	return uuid.NewString()
}

// SendTurn appends the user's message, generates a reply from the session
// context and appends it. If generation fails the user turn stays persisted,
// so the session survives the outage, and the error is reported as
// ErrGenerationUnavailable.
func (s *Service) SendTurn(ctx context.Context, username, sessionID, text string, att *gen.Attachment) (string, error) {
	history, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(history) > 0 && history[0].Username != username {
		return "", common.ErrUnauthorized
	}

	userMsg, err := s.repo.Append(ctx, &messages.Message{
		SessionID: sessionID,
		Username:  username,
		Role:      messages.RoleUser,
		Content:   text,
	})
	if err != nil {
		return "", err
	}
	history = append(history, *userMsg)

	turns, prompt := BuildContext(history, text, username)

	genCtx := ctx
	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}

	reply, err := s.generator.Generate(genCtx, turns, prompt, att)
	if err != nil {
		s.logger.Error(ctx, "generation failed", "session", sessionID, "error", err)
		return "", err
	}
	reply = strings.ReplaceAll(reply, "*", "")

	if _, err := s.repo.Append(ctx, &messages.Message{
		SessionID: sessionID,
		Username:  username,
		Role:      messages.RoleAssistant,
		Content:   reply,
	}); err != nil {
		return "", err
	}

	return reply, nil
}
