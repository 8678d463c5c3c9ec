package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/retype/internal/analysis"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	displayed := r
	if r == '\n' {
		displayed = '↵'
	}
	return styledRune{
		s:       style.Render(string(displayed)),
		width:   max(1, runewidth.RuneWidth(displayed)),
		isSpace: r == ' ' || r == '\n',
	}
}

func plainRunes(runes []rune, style lipgloss.Style) []styledRune {
	out := make([]styledRune, 0, len(runes))
	for _, r := range runes {
		out = append(out, newStyledRune(r, style))
	}
	return out
}

// buildStyledRunes overlays live input on the reference text.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case isBreak(target) && !isBreak(inputRunes[i]):
				displayed = '•'
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if !isBreak(target) && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}
		item := newStyledRune(displayed, style)
		item.isSpace = isBreak(target)
		out = append(out, item)
	}
	return out
}

// buildDiffRunes renders a finished comparison by diff kind.
func buildDiffRunes(diffs []analysis.CharacterDiff) []styledRune {
	out := make([]styledRune, 0, len(diffs))
	for _, d := range diffs {
		r, _ := firstRune(d.Char)
		var style lipgloss.Style
		switch d.Kind {
		case analysis.KindCorrect:
			style = correctStyle
		case analysis.KindIncorrect:
			style = incorrectStyle
		case analysis.KindMissing:
			style = missingStyle
		default:
			style = extraStyle
		}
		out = append(out, newStyledRune(r, style))
	}
	return out
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ' ', false
}

func isBreak(r rune) bool {
	return r == ' ' || r == '\n'
}

// token is a word at [start, end) followed by its break runes up to next.
type token struct {
	start int
	end   int
	next  int
}

func splitTokens(n int, breakAt func(int) bool) []token {
	var out []token
	for i := 0; i < n; {
		t := token{start: i}
		for i < n && !breakAt(i) {
			i++
		}
		t.end = i
		for i < n && breakAt(i) {
			i++
		}
		t.next = i
		out = append(out, t)
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	for _, t := range splitTokens(len(targetRunes), func(i int) bool { return isBreak(targetRunes[i]) }) {
		if t.end > t.start {
			words = append(words, wordRange{start: t.start, end: t.end})
		}
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	for i := range words {
		if cursorIndex < words[i].end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func widthOf(runes []styledRune) int {
	total := 0
	for _, item := range runes {
		total += item.width
	}
	return total
}

// wrapStyledRunes packs whole words into lines of at most width cells.
// Words wider than a line are split. The break rune at a line end is dropped.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	flush := func() {
		if n := len(line); n > 0 && line[n-1].isSpace {
			line = line[:n-1]
		}
		lines = append(lines, renderStyledRunes(line))
		line = nil
		lineWidth = 0
	}

	for _, t := range splitTokens(len(runes), func(i int) bool { return runes[i].isSpace }) {
		word := runes[t.start:t.end]
		if len(line) > 0 && lineWidth+widthOf(word) > width {
			flush()
		}
		for _, item := range word {
			if len(line) > 0 && lineWidth+item.width > width {
				flush()
			}
			line = append(line, item)
			lineWidth += item.width
		}
		gap := runes[t.end:t.next]
		line = append(line, gap...)
		lineWidth += widthOf(gap)
	}
	if n := len(line); n > 0 && lineWidth > width && line[n-1].isSpace {
		line = line[:n-1]
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}
