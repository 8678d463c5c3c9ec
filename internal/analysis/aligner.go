// Package analysis aligns a reference text against typed input and derives
// typing metrics and improvement feedback.
package analysis

import "strings"

// DiffKind classifies a single aligned position.
type DiffKind string

// Diff kinds.
const (
	KindCorrect   DiffKind = "correct"
	KindIncorrect DiffKind = "incorrect"
	KindMissing   DiffKind = "missing"
	KindExtra     DiffKind = "extra"
)

// MistakeDetail describes a mismatch inside the overlap of reference and typed text.
type MistakeDetail struct {
	Position  int    `json:"position" yaml:"position"`
	Expected  string `json:"expected" yaml:"expected"`
	Typed     string `json:"typed" yaml:"typed"`
	Word      string `json:"word" yaml:"word"`
	WordIndex int    `json:"wordIndex" yaml:"word_index"`
}

// CharacterDiff is one display entry of the reference/typed alignment.
type CharacterDiff struct {
	Position int      `json:"position" yaml:"position"`
	Kind     DiffKind `json:"kind" yaml:"kind"`
	Char     string   `json:"char" yaml:"char"`
}

type wordSpan struct {
	word  string
	start int
	end   int
}

// ComputeMistakes lists every position where reference and typed differ.
// Only the overlapping range is inspected; trailing missing or extra
// characters are not mistakes.
func ComputeMistakes(reference, typed string) []MistakeDetail {
	ref := []rune(reference)
	in := []rune(typed)
	n := min(len(ref), len(in))

	spans := splitWords(reference)
	mistakes := []MistakeDetail{}
	cur := 0
	for i := 0; i < n; i++ {
		if ref[i] == in[i] {
			continue
		}
		// Positions only grow, so the word cursor never moves back.
		for cur < len(spans) && i > spans[cur].end {
			cur++
		}
		detail := MistakeDetail{
			Position: i,
			Expected: string(ref[i]),
			Typed:    string(in[i]),
		}
		if cur < len(spans) && i >= spans[cur].start {
			detail.Word = spans[cur].word
			detail.WordIndex = cur
		}
		mistakes = append(mistakes, detail)
	}
	return mistakes
}

// ComputeDiff classifies every position in the union range of both texts.
// Incorrect positions carry the reference character, not the typo.
func ComputeDiff(reference, typed string) []CharacterDiff {
	ref := []rune(reference)
	in := []rune(typed)
	total := max(len(ref), len(in))

	out := make([]CharacterDiff, 0, total)
	for i := 0; i < total; i++ {
		entry := CharacterDiff{Position: i}
		switch {
		case i >= len(ref):
			entry.Kind = KindExtra
			entry.Char = string(in[i])
		case i >= len(in):
			entry.Kind = KindMissing
			entry.Char = string(ref[i])
		case ref[i] == in[i]:
			entry.Kind = KindCorrect
			entry.Char = string(ref[i])
		default:
			entry.Kind = KindIncorrect
			entry.Char = string(ref[i])
		}
		out = append(out, entry)
	}
	return out
}

// CountCorrect counts positional matches within the overlap.
func CountCorrect(reference, typed string) int {
	ref := []rune(reference)
	in := []rune(typed)
	n := min(len(ref), len(in))
	correct := 0
	for i := 0; i < n; i++ {
		if ref[i] == in[i] {
			correct++
		}
	}
	return correct
}

// splitWords splits on single spaces and records each word's rune span.
// A span's end is inclusive of the separator that follows the word.
func splitWords(text string) []wordSpan {
	words := strings.Split(text, " ")
	spans := make([]wordSpan, 0, len(words))
	start := 0
	for _, w := range words {
		end := start + len([]rune(w))
		spans = append(spans, wordSpan{word: w, start: start, end: end})
		start = end + 1
	}
	return spans
}
