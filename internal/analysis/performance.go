package analysis

// Level is a coarse performance rating.
type Level string

// Performance levels, best first.
const (
	LevelExcellent     Level = "Excellent"
	LevelGood          Level = "Good"
	LevelAverage       Level = "Average"
	LevelNeedsPractice Level = "Needs Practice"
)

// submitShare is the fraction of the reference that must be typed before submitting.
const submitShare = 0.8

// PerformanceLevel rates a result by speed and accuracy together.
func PerformanceLevel(wpm, accuracy int) Level {
	switch {
	case wpm >= 70 && accuracy >= 95:
		return LevelExcellent
	case wpm >= 50 && accuracy >= 90:
		return LevelGood
	case wpm >= 30 && accuracy >= 80:
		return LevelAverage
	default:
		return LevelNeedsPractice
	}
}

// TimeEfficiency compares expected to actual time as a percentage.
func TimeEfficiency(expectedSeconds int, elapsedSeconds float64) int {
	if expectedSeconds <= 0 || elapsedSeconds <= 0 {
		return 100
	}
	return roundHalfUp(float64(expectedSeconds) / elapsedSeconds * 100)
}

// CanSubmit reports whether enough of the reference was typed to submit.
func CanSubmit(referenceLen, typedLen int) bool {
	if referenceLen <= 0 {
		return typedLen > 0
	}
	return float64(typedLen) > float64(referenceLen)*submitShare
}

// IsComplete reports whether typing reached the reference length.
func IsComplete(referenceLen, typedLen int) bool {
	return referenceLen > 0 && typedLen >= referenceLen
}
