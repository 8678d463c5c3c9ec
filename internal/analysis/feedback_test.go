package analysis

import (
	"reflect"
	"testing"
)

func mistakesFor(pairs ...[2]string) []MistakeDetail {
	out := make([]MistakeDetail, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, MistakeDetail{Position: i, Expected: p[0], Typed: p[1]})
	}
	return out
}

func TestSuggestionsAccuracyBands(t *testing.T) {
	cases := []struct {
		accuracy int
		want     []string
	}{
		{accuracy: 79, want: []string{MsgAccuracyLow}},
		{accuracy: 80, want: []string{MsgAccuracyMedium}},
		{accuracy: 89, want: []string{MsgAccuracyMedium}},
		{accuracy: 90, want: []string{MsgExcellent}},
	}
	for _, tc := range cases {
		// 60 WPM sits in the silent speed band.
		got := Suggestions(nil, tc.accuracy, 60)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("accuracy %d: unexpected suggestions %v", tc.accuracy, got)
		}
	}
}

func TestSuggestionsSpeedBands(t *testing.T) {
	cases := []struct {
		wpm  int
		want []string
	}{
		{wpm: 0, want: []string{MsgSpeedBasics}},
		{wpm: 29, want: []string{MsgSpeedBasics}},
		{wpm: 30, want: []string{MsgSpeedMuscle}},
		{wpm: 49, want: []string{MsgSpeedMuscle}},
		{wpm: 50, want: []string{MsgExcellent}},
		{wpm: 69, want: []string{MsgExcellent}},
		{wpm: 70, want: []string{MsgSpeedHigh}},
	}
	for _, tc := range cases {
		got := Suggestions(nil, 100, tc.wpm)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("wpm %d: unexpected suggestions %v", tc.wpm, got)
		}
	}
}

func TestSuggestionsPunctuationShare(t *testing.T) {
	// 3 of 10 is not above 30%.
	three := mistakesFor(
		[2]string{".", "x"}, [2]string{",", "x"}, [2]string{"!", "x"},
		[2]string{"a", "x"}, [2]string{"b", "x"}, [2]string{"c", "x"}, [2]string{"d", "x"},
		[2]string{"e", "x"}, [2]string{"f", "x"}, [2]string{"g", "x"},
	)
	if containsString(Suggestions(three, 100, 60), MsgPunctuation) {
		t.Fatalf("punctuation rule should not fire at exactly 30%%")
	}
	four := append(mistakesFor([2]string{"-", "x"}), three[1:]...)
	four[4] = MistakeDetail{Expected: "(", Typed: "x"}
	if !containsString(Suggestions(four, 100, 60), MsgPunctuation) {
		t.Fatalf("punctuation rule should fire above 30%%")
	}
}

func TestSuggestionsNumericSingleMistake(t *testing.T) {
	m := mistakesFor([2]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"7", "8"})
	for i := range m {
		m[i].Word = []string{"alpha", "beta", "x7"}[i]
	}
	got := Suggestions(m, 100, 60)
	if !reflect.DeepEqual(got, []string{MsgNumbers}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
}

func TestSuggestionsCapitalization(t *testing.T) {
	m := mistakesFor([2]string{"T", "t"})
	m[0].Word = "The"
	if got := Suggestions(m, 100, 60); !reflect.DeepEqual(got, []string{MsgCapitalization}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	// Lower-case expected char typed upper-case is also a capitalization slip.
	m = mistakesFor([2]string{"a", "A"})
	if got := Suggestions(m, 100, 60); !containsString(got, MsgCapitalization) {
		t.Fatalf("expected capitalization suggestion, got %v", got)
	}
	// One of five is exactly 20% and does not fire.
	m = mistakesFor([2]string{"A", "a"}, [2]string{"b", "x"}, [2]string{"c", "x"}, [2]string{"d", "x"}, [2]string{"e", "x"})
	for i := range m {
		m[i].Word = []string{"v", "w", "x", "y", "z"}[i]
	}
	if got := Suggestions(m, 100, 60); containsString(got, MsgCapitalization) {
		t.Fatalf("capitalization should not fire at 20%%, got %v", got)
	}
}

func TestSuggestionsRepeatedWords(t *testing.T) {
	words := []string{"The", "quick", "the", "fox", "quick", "fox", "jumps", "jumps", "over"}
	m := make([]MistakeDetail, 0, len(words))
	for i, w := range words {
		m = append(m, MistakeDetail{Position: i, Expected: "a", Typed: "b", Word: w})
	}
	got := Suggestions(m, 100, 60)
	want := []string{MsgWordsPrefix + "the, quick, fox"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected suggestions %v", got)
	}
}

func TestSuggestionsRuleOrder(t *testing.T) {
	m := []MistakeDetail{
		{Expected: ".", Typed: ",", Word: "end."},
		{Expected: "1", Typed: "2", Word: "end."},
		{Expected: "E", Typed: "e", Word: "End"},
	}
	got := Suggestions(m, 50, 10)
	want := []string{
		MsgAccuracyLow,
		MsgSpeedBasics,
		MsgPunctuation,
		MsgNumbers,
		MsgCapitalization,
		MsgWordsPrefix + "end.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
	}
}

func TestRuleTableOrder(t *testing.T) {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	want := []string{"accuracy", "speed", "punctuation", "numeric", "capitalization", "repeated-words"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected rule order %v", names)
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
