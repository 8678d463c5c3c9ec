package analysis

import (
	"strings"
)

// Suggestion messages, in rule order.
const (
	MsgAccuracyLow    = "Focus on accuracy over speed. Slow down and ensure each keystroke is correct."
	MsgAccuracyMedium = "Good progress! Try to maintain focus on accuracy while gradually increasing speed."
	MsgSpeedBasics    = "Practice basic finger positioning and try to type without looking at the keyboard."
	MsgSpeedMuscle    = "Great foundation! Focus on building muscle memory for common letter combinations."
	MsgSpeedHigh      = "Excellent typing speed! Consider practicing complex texts to maintain this level."
	MsgPunctuation    = "Focus on punctuation accuracy. Practice typing sentences with various punctuation marks."
	MsgNumbers        = "Practice typing numbers. Consider using the number row or numeric keypad more frequently."
	MsgCapitalization = "Work on capitalization accuracy. Practice proper use of the Shift key."
	MsgWordsPrefix    = "Practice these challenging words: "
	MsgExcellent      = "Excellent performance! Keep practicing to maintain your skills."
)

const (
	punctuationChars = ".,;:!?'\"()-"
	maxRepeatedWords = 3
	// Share thresholds as fractions: punctuation > 3/10, capitalization > 1/5.
	punctuationNum, punctuationDen       = 3, 10
	capitalizationNum, capitalizationDen = 1, 5
)

type feedbackInput struct {
	mistakes []MistakeDetail
	accuracy int
	wpm      int
}

// rule inspects the input and returns a message when it fires.
type rule struct {
	name string
	eval func(feedbackInput) (string, bool)
}

var rules = []rule{
	{name: "accuracy", eval: accuracyRule},
	{name: "speed", eval: speedRule},
	{name: "punctuation", eval: punctuationRule},
	{name: "numeric", eval: numericRule},
	{name: "capitalization", eval: capitalizationRule},
	{name: "repeated-words", eval: repeatedWordsRule},
}

// Suggestions evaluates the feedback rules in order. The result is never empty.
func Suggestions(mistakes []MistakeDetail, accuracy, wpm int) []string {
	in := feedbackInput{mistakes: mistakes, accuracy: accuracy, wpm: wpm}
	out := []string{}
	for _, r := range rules {
		if msg, ok := r.eval(in); ok {
			out = append(out, msg)
		}
	}
	if len(out) == 0 {
		out = append(out, MsgExcellent)
	}
	return out
}

func accuracyRule(in feedbackInput) (string, bool) {
	switch {
	case in.accuracy < 80:
		return MsgAccuracyLow, true
	case in.accuracy < 90:
		return MsgAccuracyMedium, true
	}
	return "", false
}

func speedRule(in feedbackInput) (string, bool) {
	switch {
	case in.wpm < 30:
		return MsgSpeedBasics, true
	case in.wpm < 50:
		return MsgSpeedMuscle, true
	case in.wpm >= 70:
		return MsgSpeedHigh, true
	}
	// 50-69 is silent.
	return "", false
}

func punctuationRule(in feedbackInput) (string, bool) {
	count := countWhere(in.mistakes, func(m MistakeDetail) bool {
		return m.Expected != "" && strings.Contains(punctuationChars, m.Expected)
	})
	if count*punctuationDen > len(in.mistakes)*punctuationNum {
		return MsgPunctuation, true
	}
	return "", false
}

func numericRule(in feedbackInput) (string, bool) {
	count := countWhere(in.mistakes, func(m MistakeDetail) bool {
		return len(m.Expected) == 1 && m.Expected[0] >= '0' && m.Expected[0] <= '9'
	})
	if count > 0 {
		return MsgNumbers, true
	}
	return "", false
}

func capitalizationRule(in feedbackInput) (string, bool) {
	count := countWhere(in.mistakes, func(m MistakeDetail) bool {
		return m.Expected != m.Typed && strings.EqualFold(m.Expected, m.Typed)
	})
	if count*capitalizationDen > len(in.mistakes)*capitalizationNum {
		return MsgCapitalization, true
	}
	return "", false
}

func repeatedWordsRule(in feedbackInput) (string, bool) {
	counts := map[string]int{}
	order := []string{}
	for _, m := range in.mistakes {
		word := strings.ToLower(m.Word)
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}
	frequent := make([]string, 0, maxRepeatedWords)
	for _, word := range order {
		if counts[word] < 2 {
			continue
		}
		frequent = append(frequent, word)
		if len(frequent) == maxRepeatedWords {
			break
		}
	}
	if len(frequent) == 0 {
		return "", false
	}
	return MsgWordsPrefix + strings.Join(frequent, ", "), true
}

func countWhere(mistakes []MistakeDetail, pred func(MistakeDetail) bool) int {
	n := 0
	for _, m := range mistakes {
		if pred(m) {
			n++
		}
	}
	return n
}
