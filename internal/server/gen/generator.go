// Package gen calls the generative-language backend. The backend is a
// black box to the rest of the server: ordered role-tagged history in,
// one text reply out.
package gen

import "context"

// Role is the backend's turn vocabulary, which differs from the stored
// message vocabulary ("assistant" maps to RolePriorModel).
type Role string

const (
	RolePriorUser  Role = "user"
	RolePriorModel Role = "model"
)

// Turn is one prior exchange handed to the backend as context.
type Turn struct {
	Role Role
	Text string
}

// Attachment is an optional binary payload sent alongside the prompt.
// It is never persisted.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Generator produces a reply to prompt given the prior turns. A failed or
// timed-out call, including a missing backend credential, surfaces as
// common.ErrGenerationUnavailable.
type Generator interface {
	Generate(ctx context.Context, history []Turn, prompt string, att *Attachment) (string, error)
}
