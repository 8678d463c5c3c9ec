package analysis

// Result is the combined output of a single analysis.
type Result struct {
	WPM             int             `json:"wpm" yaml:"wpm"`
	CPM             int             `json:"cpm" yaml:"cpm"`
	Accuracy        int             `json:"accuracy" yaml:"accuracy"`
	ElapsedSeconds  float64         `json:"elapsedSeconds" yaml:"elapsed_seconds"`
	CorrectChars    int             `json:"correctChars" yaml:"correct_chars"`
	TotalTyped      int             `json:"totalTyped" yaml:"total_typed"`
	Mistakes        int             `json:"mistakes" yaml:"mistakes"`
	MistakeDetails  []MistakeDetail `json:"mistakeDetails" yaml:"mistake_details"`
	ExpectedSeconds int             `json:"expectedSeconds" yaml:"expected_seconds"`
	Suggestions     []string        `json:"suggestions" yaml:"suggestions"`
}

// Analyze compares typed against reference over elapsedSeconds.
// Callers must reject negative elapsed time.
func Analyze(reference, typed string, elapsedSeconds float64) Result {
	return AnalyzeWithBaseline(reference, typed, elapsedSeconds, DefaultBaselineWPM)
}

// AnalyzeWithBaseline is Analyze with a custom expected-time baseline.
func AnalyzeWithBaseline(reference, typed string, elapsedSeconds float64, baselineWPM int) Result {
	mistakes := ComputeMistakes(reference, typed)
	correct := CountCorrect(reference, typed)
	total := len([]rune(typed))

	wpm := WPM(correct, elapsedSeconds)
	acc := Accuracy(correct, total)
	return Result{
		WPM:             wpm,
		CPM:             CPM(correct, elapsedSeconds),
		Accuracy:        acc,
		ElapsedSeconds:  elapsedSeconds,
		CorrectChars:    correct,
		TotalTyped:      total,
		Mistakes:        len(mistakes),
		MistakeDetails:  mistakes,
		ExpectedSeconds: ExpectedSeconds(reference, baselineWPM),
		Suggestions:     Suggestions(mistakes, acc, wpm),
	}
}

// Diff returns the per-position display classification.
func Diff(reference, typed string) []CharacterDiff {
	return ComputeDiff(reference, typed)
}
