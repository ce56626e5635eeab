package gen

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/sangpi/chatvault/internal/common"
)

const maxOutputTokens = 4000

// Gemini is a Generator backed by Google's Gemini API. The client is
// created lazily on first use: a missing API key must surface as
// ErrGenerationUnavailable at call time, never as a construction failure.
type Gemini struct {
	apiKey       string
	model        string
	systemPrompt string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini configures a Gemini generator. model must be non-empty;
// systemPrompt and apiKey may be empty.
func NewGemini(apiKey, model, systemPrompt string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, systemPrompt: systemPrompt}
}

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", common.ErrGenerationUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationUnavailable, err)
	}
	g.client = client
	return client, nil
}

// buildContents assembles the backend request: prior turns in order, then
// the pending prompt as the final user content (with the attachment part
// first when one is supplied).
func buildContents(history []Turn, prompt string, att *Attachment) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(t.Role)))
	}

	if att != nil {
		parts := []*genai.Part{
			genai.NewPartFromBytes(att.Data, att.MIMEType),
			genai.NewPartFromText(prompt),
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	} else {
		contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	}

	return contents
}

// Generate sends the assembled context to the model and returns the reply
// text. The whole response is consumed before returning; there is no
// streaming variant.
func (g *Gemini) Generate(ctx context.Context, history []Turn, prompt string, att *Attachment) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.8),
		MaxOutputTokens: maxOutputTokens,
	}
	if g.systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(g.systemPrompt)},
		}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, buildContents(history, prompt, att), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrGenerationUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", common.ErrGenerationUnavailable)
	}
	return text, nil
}
