package analysis

import (
	"math"
	"strings"
)

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// DefaultBaselineWPM is the reference speed for expected completion time.
const DefaultBaselineWPM = 40

// WPM returns words per minute from correct characters.
func WPM(correct int, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	minutes := seconds / 60
	words := float64(correct) / CharsPerWord
	return roundHalfUp(words / minutes)
}

// CPM returns correct characters per minute.
func CPM(correct int, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	minutes := seconds / 60
	return roundHalfUp(float64(correct) / minutes)
}

// Accuracy returns the percentage of typed characters that were correct.
// Typing nothing counts as fully accurate.
func Accuracy(correct, totalTyped int) int {
	if totalTyped <= 0 {
		return 100
	}
	return roundHalfUp(float64(correct) / float64(totalTyped) * 100)
}

// ExpectedSeconds estimates completion time for reference at baselineWPM.
// Words are single-space separated tokens, empty tokens included.
func ExpectedSeconds(reference string, baselineWPM int) int {
	if baselineWPM <= 0 {
		return 0
	}
	words := len(strings.Split(reference, " "))
	return roundHalfUp(float64(words) / float64(baselineWPM) * 60)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
