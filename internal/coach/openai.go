package coach

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

type openaiProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(model string) (Provider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("coach: OPENAI_API_KEY environment variable not set")
	}
	return &openaiProvider{client: openai.NewClient(option.WithAPIKey(apiKey)), model: model}, nil
}

func (p *openaiProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     shared.ChatModel(p.model),
		MaxTokens: openai.Int(int64(maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat.completions.new: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: response contained no content")
	}
	return resp.Choices[0].Message.Content, nil
}
