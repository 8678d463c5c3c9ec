package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/retype/internal/analysis"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	input := []rune("a")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	target := []rune("a")
	input := []rune("a")
	cursorIndex := -1

	runes := buildStyledRunes(target, input, cursorIndex)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	input := []rune("ax")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	target := []rune("one two")
	input := []rune("o")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != currentWordStyle.Render("n") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if runes[6].s != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	input := []rune("ax")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestBuildDiffRunesUsesDiffChars(t *testing.T) {
	diffs := analysis.ComputeDiff("abc", "axcd")
	runes := buildDiffRunes(diffs)
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected reference char for incorrect position")
	}
	if runes[3].s != extraStyle.Render("d") {
		t.Fatalf("expected extra style for trailing typed char")
	}
}

func TestNewlineRendersAsBreak(t *testing.T) {
	runes := plainRunes([]rune("ab\ncd"), correctStyle)
	if !runes[2].isSpace || runes[2].s != correctStyle.Render("↵") {
		t.Fatalf("expected newline marker to be a break point")
	}
}

func TestWrapStyledRunesBreaksAtSpace(t *testing.T) {
	out := wrapStyledRunes(plainRunes([]rune("one two three"), correctStyle), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || lines[0] != correctStyle.Render("o")+correctStyle.Render("n")+correctStyle.Render("e")+correctStyle.Render(" ")+correctStyle.Render("t")+correctStyle.Render("w")+correctStyle.Render("o") {
		t.Fatalf("unexpected wrap: %q", out)
	}
}

func TestWrapStyledRunesSplitsLongWords(t *testing.T) {
	r := func(s string) string {
		var b strings.Builder
		for _, ch := range s {
			b.WriteString(correctStyle.Render(string(ch)))
		}
		return b.String()
	}
	out := wrapStyledRunes(plainRunes([]rune("ab abcdef"), correctStyle), 4)
	want := r("ab") + "\n" + r("abcd") + "\n" + r("ef")
	if out != want {
		t.Fatalf("unexpected wrap: %q", out)
	}
}

func TestFindWordsSkipsRepeatedBreaks(t *testing.T) {
	words := findWords([]rune("  ab  c\nd"))
	want := []wordRange{{start: 2, end: 4}, {start: 6, end: 7}, {start: 8, end: 9}}
	if len(words) != len(want) {
		t.Fatalf("unexpected words: %+v", words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("unexpected words: %+v", words)
		}
	}
	if w := wordForCursor(words, 5); w == nil || w.start != 6 {
		t.Fatalf("unexpected cursor word: %+v", w)
	}
}
