// Package messages owns the durable message log and the session directory
// derived from it.
package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/sangpi/chatvault/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts one immutable message. The timestamp is taken at write
// time (UTC) and stored in the same atomic insert, so a message either
// fully lands or not at all. The returned message carries the assigned id
// and timestamp.
func (r *PostgresRepository) Append(ctx context.Context, msg *Message) (*Message, error) {
	query :=
		`INSERT INTO messages (session_id, username, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	msg.Timestamp = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query,
		msg.SessionID, msg.Username, msg.Role, msg.Content, msg.Timestamp).Scan(&msg.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

// ListBySession returns all messages for sessionID ordered by timestamp
// ascending, with the insertion id breaking timestamp ties. An empty result
// is a valid state, indistinguishable from "session never existed".
func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]Message, error) {
	query :=
		`SELECT id, session_id, username, role, content, created_at FROM messages
		 WHERE session_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Username, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msgs, nil
}

// DeleteSession removes every message with the given session id. Once the
// last message is gone the session ceases to exist; deleting a non-existent
// session is a no-op.
func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM messages WHERE session_id = $1`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every message owned by username across all of
// their sessions. Idempotent.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, username string) error {
	query := `DELETE FROM messages WHERE username = $1`
	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// parseDriverTime decodes a timestamp a driver returned as text. It tries
// modernc.org/sqlite's storage layout (Go's time.Time.String form) first,
// then RFC 3339.
func parseDriverTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999 -0700 MST",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

// ListSessions returns the user's sessions ordered by last activity
// descending, truncated to limit. session_id is the secondary sort key so
// ties order the same way on every call.
func (r *PostgresRepository) ListSessions(ctx context.Context, username string, limit int) ([]SessionInfo, error) {
	query :=
		`SELECT session_id, MAX(created_at) AS last_activity
		 FROM messages
		 WHERE username = $1
		 GROUP BY session_id
		 ORDER BY last_activity DESC, session_id
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var s SessionInfo
		// MAX(created_at) is an aggregate with no declared column type, so
		// some drivers (modernc.org/sqlite) hand it back as a string rather
		// than a time.Time; scan into an intermediate and normalize.
		var last any
		if err := rows.Scan(&s.SessionID, &last); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		switch v := last.(type) {
		case time.Time:
			s.LastActivity = v
		case string:
			t, err := parseDriverTime(v)
			if err != nil {
				return nil, fmt.Errorf("db error: %w", err)
			}
			s.LastActivity = t
		case []byte:
			t, err := parseDriverTime(string(v))
			if err != nil {
				return nil, fmt.Errorf("db error: %w", err)
			}
			s.LastActivity = t
		default:
			return nil, fmt.Errorf("db error: unsupported last_activity type %T", last)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sessions, nil
}
