package chat

import (
	"fmt"

	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/messages"
)

// BuildContext converts a session's stored turns into the ordered context
// handed to the generation backend, plus the annotated pending prompt.
//
// The assembler runs when the last stored turn is the unanswered user turn:
// that turn is the new prompt, not history, so it is excluded. Stored roles
// map to the backend vocabulary (assistant → prior-model, user →
// prior-user). The caller annotation prefixed to the prompt lets the
// backend personalize its reply; it is never persisted. Only the clean
// reply and the original user text reach the message log.
//
// An empty history works identically: no turns, just the annotated prompt.
func BuildContext(history []messages.Message, pendingPrompt, username string) ([]gen.Turn, string) {
	if n := len(history); n > 0 && history[n-1].Role == messages.RoleUser {
		history = history[:n-1]
	}

	turns := make([]gen.Turn, 0, len(history))
	for _, m := range history {
		role := gen.RolePriorUser
		if m.Role == messages.RoleAssistant {
			role = gen.RolePriorModel
		}
		turns = append(turns, gen.Turn{Role: role, Text: m.Content})
	}

	prompt := fmt.Sprintf("[User Min: %s]. %s", username, pendingPrompt)
	return turns, prompt
}
