package messages

import "time"

// Stored role vocabulary. The generation backend uses its own vocabulary;
// the mapping lives in the chat package.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable turn in a conversation session. There is no
// update operation: messages are inserted and bulk-deleted only.
type Message struct {
	ID        int64
	SessionID string
	Username  string
	Role      string
	Content   string
	Timestamp time.Time
}

// SessionInfo is one row of the session directory: a session identifier and
// the timestamp of its most recent message. Sessions have no stored record
// of their own; a session with zero messages does not exist.
type SessionInfo struct {
	SessionID    string
	LastActivity time.Time
}
