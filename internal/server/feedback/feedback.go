// Package feedback stores append-only feedback notes left by users.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/sangpi/chatvault/internal/dbx"
)

// Note is one feedback entry. Notes are never updated or deleted.
type Note struct {
	ID        int64
	Username  string
	Message   string
	Timestamp time.Time
}

type Repository interface {
	Create(ctx context.Context, username, message string) (*Note, error)
}

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a feedback note with the current wall-clock time.
func (r *PostgresRepository) Create(ctx context.Context, username, message string) (*Note, error) {
	query :=
		`INSERT INTO feedback (username, message, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	note := &Note{
		Username:  username,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if err := r.db.QueryRowContext(ctx, query, note.Username, note.Message, note.Timestamp).Scan(&note.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}
