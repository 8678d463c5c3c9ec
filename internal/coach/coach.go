// Package coach asks an LLM for personalised typing practice tips.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/retype/internal/analysis"
)

// MaxTips caps the number of tips returned by Advise.
const MaxTips = 5

const (
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGoogleModel    = "gemini-1.5-flash"
	defaultMaxTokens      = 512
	maxMistakesInPrompt   = 40
)

// ErrNoTips is returned when the model reply contains no usable tips.
var ErrNoTips = errors.New("coach: reply contained no tips")

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// NewProvider is the factory for creating LLM providers.
// Tests replace it and restore it with t.Cleanup.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// Options configures a Coach.
type Options struct {
	Provider  string
	Model     string
	MaxTokens int
}

// Coach turns an analysis result into extra practice tips.
type Coach struct {
	provider  Provider
	maxTokens int
}

// New builds a Coach for the configured provider.
func New(opts Options) (*Coach, error) {
	p, err := NewProvider(opts.Provider, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("coach: create provider: %w", err)
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Coach{provider: p, maxTokens: maxTokens}, nil
}

// Advise asks the provider for tips about one completed test.
func (c *Coach) Advise(ctx context.Context, reference string, res analysis.Result) ([]string, error) {
	raw, err := c.provider.Complete(ctx, systemPrompt, buildUserPrompt(reference, res), c.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("coach: complete: %w", err)
	}
	tips := parseTips(raw)
	if len(tips) == 0 {
		return nil, ErrNoTips
	}
	return tips, nil
}

const systemPrompt = "You are a concise typing coach. " +
	"Given a typing test result, reply with at most five short practice tips, " +
	"one per line, each starting with \"- \". No other prose."

func buildUserPrompt(reference string, res analysis.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "WPM: %d\nCPM: %d\nAccuracy: %d%%\nMistakes: %d\n", res.WPM, res.CPM, res.Accuracy, res.Mistakes)
	if len(res.MistakeDetails) > 0 {
		sb.WriteString("\nMistakes (expected -> typed, word):\n")
		for i, m := range res.MistakeDetails {
			if i == maxMistakesInPrompt {
				fmt.Fprintf(&sb, "  ... %d more\n", len(res.MistakeDetails)-i)
				break
			}
			fmt.Fprintf(&sb, "  %q -> %q in %q\n", m.Expected, m.Typed, m.Word)
		}
	}
	if len(res.Suggestions) > 0 {
		sb.WriteString("\nAlready suggested:\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(&sb, "  %s\n", s)
		}
	}
	sb.WriteString("\nText:\n")
	sb.WriteString(reference)
	sb.WriteString("\n\nGive your tips now.")
	return sb.String()
}

// parseTips extracts bullet or numbered lines from a model reply.
// Plain lines are accepted when the reply has no bullets at all.
func parseTips(raw string) []string {
	var bullets, plain []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		if tip, ok := stripBullet(line); ok {
			if tip != "" {
				bullets = append(bullets, tip)
			}
			continue
		}
		plain = append(plain, line)
	}
	tips := bullets
	if len(tips) == 0 {
		tips = plain
	}
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}

func stripBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:]), true
	}
	return "", false
}

func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic", "":
		if model == "" {
			model = defaultAnthropicModel
		}
		return newAnthropicProvider(model)
	case "openai":
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAIProvider(model)
	case "google":
		if model == "" {
			model = defaultGoogleModel
		}
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("coach: unknown provider %q", providerName)
	}
}
