package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/messages"
)

func TestBuildContext_EmptyHistory(t *testing.T) {
	turns, prompt := BuildContext(nil, "hello", "min")
	assert.Empty(t, turns)
	assert.Equal(t, "[User Min: min]. hello", prompt)
}

func TestBuildContext_ExcludesTrailingUserTurn(t *testing.T) {
	history := []messages.Message{
		{Role: messages.RoleUser, Content: "hi"},
		{Role: messages.RoleAssistant, Content: "hello"},
		{Role: messages.RoleUser, Content: "how are you"},
	}

	turns, prompt := BuildContext(history, "how are you", "min")

	assert.Equal(t, []gen.Turn{
		{Role: gen.RolePriorUser, Text: "hi"},
		{Role: gen.RolePriorModel, Text: "hello"},
	}, turns)
	assert.Equal(t, "[User Min: min]. how are you", prompt)
}

func TestBuildContext_KeepsTrailingAssistantTurn(t *testing.T) {
	history := []messages.Message{
		{Role: messages.RoleUser, Content: "hi"},
		{Role: messages.RoleAssistant, Content: "hello"},
	}

	turns, _ := BuildContext(history, "next", "min")

	assert.Len(t, turns, 2)
	assert.Equal(t, gen.RolePriorModel, turns[1].Role)
}

func TestBuildContext_RoleMapping(t *testing.T) {
	history := []messages.Message{
		{Role: messages.RoleAssistant, Content: "welcome back"},
	}

	turns, _ := BuildContext(history, "thanks", "alice")

	assert.Equal(t, gen.RolePriorModel, turns[0].Role)
}
