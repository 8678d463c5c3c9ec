package coach

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"
)

// googleProvider opens a client per call so the caller's context owns it.
type googleProvider struct {
	apiKey string
	model  string
}

func newGoogleProvider(model string) (Provider, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("coach: GOOGLE_API_KEY environment variable not set")
	}
	return &googleProvider{apiKey: apiKey, model: model}, nil
}

func (p *googleProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("google: genai client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(p.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	maxOut := int32(maxTokens)
	m.MaxOutputTokens = &maxOut

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("google: generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("google: response contained no text content")
	}
	return strings.Join(parts, ""), nil
}
