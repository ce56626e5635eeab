package messages

import "context"

type Repository interface {
	Append(ctx context.Context, msg *Message) (*Message, error)
	ListBySession(ctx context.Context, sessionID string) ([]Message, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteAllForUser(ctx context.Context, username string) error
	ListSessions(ctx context.Context, username string, limit int) ([]SessionInfo, error)
}
