package resumetokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, username string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*ResumeToken, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, username string) error
}
