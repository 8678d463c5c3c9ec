package analysis

import (
	"strings"
	"testing"
)

func TestWPMAndCPM(t *testing.T) {
	cases := []struct {
		correct int
		seconds float64
		wpm     int
		cpm     int
	}{
		{correct: 3, seconds: 6, wpm: 6, cpm: 30},
		{correct: 250, seconds: 60, wpm: 50, cpm: 250},
		// .5 boundaries round up.
		{correct: 25, seconds: 120, wpm: 3, cpm: 13},
		{correct: 5, seconds: 120, wpm: 1, cpm: 3},
		{correct: 3, seconds: 120, wpm: 0, cpm: 2},
		{correct: 12, seconds: 60, wpm: 2, cpm: 12},
		{correct: 13, seconds: 60, wpm: 3, cpm: 13},
		{correct: 0, seconds: 30, wpm: 0, cpm: 0},
	}
	for _, tc := range cases {
		if got := WPM(tc.correct, tc.seconds); got != tc.wpm {
			t.Fatalf("WPM(%d, %v): expected %d, got %d", tc.correct, tc.seconds, tc.wpm, got)
		}
		if got := CPM(tc.correct, tc.seconds); got != tc.cpm {
			t.Fatalf("CPM(%d, %v): expected %d, got %d", tc.correct, tc.seconds, tc.cpm, got)
		}
	}
}

func TestZeroTimeGuard(t *testing.T) {
	for _, correct := range []int{0, 1, 500} {
		if got := WPM(correct, 0); got != 0 {
			t.Fatalf("WPM(%d, 0): expected 0, got %d", correct, got)
		}
		if got := CPM(correct, 0); got != 0 {
			t.Fatalf("CPM(%d, 0): expected 0, got %d", correct, got)
		}
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct int
		total   int
		want    int
	}{
		{0, 0, 100},
		{3, 3, 100},
		{0, 5, 0},
		{1, 8, 13},
		{3, 8, 38},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tc := range cases {
		if got := Accuracy(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Accuracy(%d, %d): expected %d, got %d", tc.correct, tc.total, tc.want, got)
		}
	}
}

func TestExpectedSeconds(t *testing.T) {
	eighty := strings.TrimSpace(strings.Repeat("word ", 80))
	if got := ExpectedSeconds(eighty, DefaultBaselineWPM); got != 120 {
		t.Fatalf("expected 120 seconds for 80 words, got %d", got)
	}
	// The empty reference still splits into one token: 1/40*60 = 1.5.
	if got := ExpectedSeconds("", DefaultBaselineWPM); got != 2 {
		t.Fatalf("expected 2 seconds for empty text, got %d", got)
	}
	// Consecutive spaces are not normalized.
	if got := ExpectedSeconds("a  b", 60); got != 3 {
		t.Fatalf("expected 3 seconds for three tokens, got %d", got)
	}
	if got := ExpectedSeconds("a b", 0); got != 0 {
		t.Fatalf("expected 0 for non-positive baseline, got %d", got)
	}
}
