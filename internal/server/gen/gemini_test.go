package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangpi/chatvault/internal/common"
)

func TestGenerate_NoAPIKey(t *testing.T) {
	g := NewGemini("", "gemini-2.5-flash", "")

	_, err := g.Generate(context.Background(), nil, "hello", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrGenerationUnavailable),
		"missing key must surface as ErrGenerationUnavailable, got %v", err)
}

func TestBuildContents_HistoryOrderAndRoles(t *testing.T) {
	history := []Turn{
		{Role: RolePriorUser, Text: "hi"},
		{Role: RolePriorModel, Text: "hello"},
	}

	contents := buildContents(history, "next question", nil)
	require.Len(t, contents, 3)

	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "hi", contents[0].Parts[0].Text)
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "hello", contents[1].Parts[0].Text)
	assert.Equal(t, "user", string(contents[2].Role))
	assert.Equal(t, "next question", contents[2].Parts[0].Text)
}

func TestBuildContents_EmptyHistory(t *testing.T) {
	contents := buildContents(nil, "first", nil)
	require.Len(t, contents, 1)
	assert.Equal(t, "first", contents[0].Parts[0].Text)
}

func TestBuildContents_Attachment(t *testing.T) {
	att := &Attachment{MIMEType: "image/png", Data: []byte{1, 2, 3}}

	contents := buildContents(nil, "describe this", att)
	require.Len(t, contents, 1)
	require.Len(t, contents[0].Parts, 2)

	require.NotNil(t, contents[0].Parts[0].InlineData)
	assert.Equal(t, "image/png", contents[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, contents[0].Parts[0].InlineData.Data)
	assert.Equal(t, "describe this", contents[0].Parts[1].Text)
}
