package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/retype/internal/analysis"
)

type mockProvider struct {
	reply      string
	err        error
	lastUser   string
	lastTokens int
}

func (m *mockProvider) Complete(_ context.Context, _, userPrompt string, maxTokens int) (string, error) {
	m.lastUser = userPrompt
	m.lastTokens = maxTokens
	return m.reply, m.err
}

func withProvider(t *testing.T, p Provider) {
	t.Helper()
	orig := NewProvider
	t.Cleanup(func() { NewProvider = orig })
	NewProvider = func(string, string) (Provider, error) { return p, nil }
}

func TestAdviseParsesBullets(t *testing.T) {
	mock := &mockProvider{reply: "Here you go:\n- Slow down on digits\n* Watch the shift key\n1. Drill \"101\"\n"}
	withProvider(t, mock)

	c, err := New(Options{Provider: "anthropic"})
	if err != nil {
		t.Fatalf("new coach: %v", err)
	}
	res := analysis.Analyze("room 101", "room 102", 4)
	tips, err := c.Advise(context.Background(), "room 101", res)
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	want := []string{"Slow down on digits", "Watch the shift key", `Drill "101"`}
	if len(tips) != len(want) {
		t.Fatalf("expected %d tips, got %v", len(want), tips)
	}
	for i := range want {
		if tips[i] != want[i] {
			t.Fatalf("tip %d: expected %q, got %q", i, want[i], tips[i])
		}
	}
	if mock.lastTokens != defaultMaxTokens {
		t.Fatalf("expected default max tokens, got %d", mock.lastTokens)
	}
	if !strings.Contains(mock.lastUser, `"1" -> "2" in "101"`) || !strings.Contains(mock.lastUser, "room 101") {
		t.Fatalf("prompt missing mistake context:\n%s", mock.lastUser)
	}
}

func TestAdviseCapsTips(t *testing.T) {
	withProvider(t, &mockProvider{reply: "- a\n- b\n- c\n- d\n- e\n- f\n- g"})
	c, err := New(Options{MaxTokens: 64})
	if err != nil {
		t.Fatalf("new coach: %v", err)
	}
	tips, err := c.Advise(context.Background(), "abc", analysis.Analyze("abc", "abc", 1))
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if len(tips) != MaxTips {
		t.Fatalf("expected %d tips, got %d", MaxTips, len(tips))
	}
}

func TestAdviseEmptyReply(t *testing.T) {
	withProvider(t, &mockProvider{reply: "\n\n"})
	c, _ := New(Options{})
	if _, err := c.Advise(context.Background(), "abc", analysis.Result{}); !errors.Is(err, ErrNoTips) {
		t.Fatalf("expected ErrNoTips, got %v", err)
	}
}

func TestAdviseProviderError(t *testing.T) {
	withProvider(t, &mockProvider{err: errors.New("rate limited")})
	c, _ := New(Options{})
	_, err := c.Advise(context.Background(), "abc", analysis.Result{})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestParseTipsPlainFallback(t *testing.T) {
	tips := parseTips("Practice home row.\nUse all fingers.")
	if len(tips) != 2 || tips[0] != "Practice home row." {
		t.Fatalf("unexpected plain tips: %v", tips)
	}
}

func TestDefaultNewProviderUnknown(t *testing.T) {
	if _, err := defaultNewProvider("mistral", ""); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}

func TestDefaultNewProviderMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := defaultNewProvider("openai", ""); err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}
