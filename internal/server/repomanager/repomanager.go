// Package repomanager hands out repositories bound to a DBTX, so services
// can run the same repository code against *sql.DB or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/sangpi/chatvault/internal/dbx"
	"github.com/sangpi/chatvault/internal/server/feedback"
	"github.com/sangpi/chatvault/internal/server/messages"
	"github.com/sangpi/chatvault/internal/server/resumetokens"
	"github.com/sangpi/chatvault/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ResumeTokens(db dbx.DBTX) resumetokens.Repository
	Messages(db dbx.DBTX) messages.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
