package textsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
)

func TestGenerateWordCount(t *testing.T) {
	g := NewSeededGenerator(1)
	text := g.Generate([]string{"alpha", "beta"}, 12, 0, 0, "")
	words := strings.Split(text, " ")
	if len(words) != 12 {
		t.Fatalf("expected 12 words, got %d: %q", len(words), text)
	}
	for _, w := range words {
		if w != "alpha" && w != "beta" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestGenerateAlwaysCapsAndPunct(t *testing.T) {
	g := NewSeededGenerator(7)
	text := g.Generate([]string{"word"}, 5, 1, 1, "!")
	for _, w := range strings.Split(text, " ") {
		if !unicode.IsUpper([]rune(w)[0]) || !strings.HasSuffix(w, "!") {
			t.Fatalf("expected capitalized punctuated word, got %q", w)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	g := NewSeededGenerator(1)
	if got := g.Generate(nil, 5, 0, 0, ""); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestLoadWordsSkipsBlankAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# list\none\n\n two \n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 || words[0] != "one" || words[1] != "two" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestFilterWords(t *testing.T) {
	got := FilterWords([]string{"ok", "", "two words", "fine"})
	if len(got) != 2 || got[0] != "ok" || got[1] != "fine" {
		t.Fatalf("unexpected filtered words: %v", got)
	}
}
