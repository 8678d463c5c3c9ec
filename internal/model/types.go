// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/retype/internal/analysis"
)

// Text sources.
const (
	SourcePasted    = "pasted"
	SourceUploaded  = "uploaded"
	SourceClipboard = "clipboard"
	SourceGenerated = "generated"
)

// Config defines practice settings.
type Config struct {
	BaselineWPM int
	Memorize    bool
	Title       string
	Source      string
	Filename    string
}

// GeneratorConfig defines random practice text settings.
type GeneratorConfig struct {
	WordListPath string
	Words        int
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
}

// Sort keys for history listings.
const (
	SortDate     = "date"
	SortWPM      = "wpm"
	SortAccuracy = "accuracy"
)

// Filters for history listings.
const (
	FilterAll  = "all"
	FilterHigh = "high"
	FilterLow  = "low"
)

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	SortBy string
	Filter string
	Limit  int
	Since  *time.Time
}

// TestRecord is a completed typing test with its analysis.
type TestRecord struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Source      string          `json:"source" yaml:"source"`
	Filename    string          `json:"filename,omitempty" yaml:"filename,omitempty"`
	Reference   string          `json:"reference" yaml:"reference"`
	Typed       string          `json:"typed" yaml:"typed"`
	Result      analysis.Result `json:"result" yaml:"result"`
	CompletedAt time.Time       `json:"completedAt" yaml:"completed_at"`
}

// Summary aggregates a set of test records.
type Summary struct {
	TotalTests      int `json:"totalTests" yaml:"total_tests"`
	AverageWPM      int `json:"averageWpm" yaml:"average_wpm"`
	AverageAccuracy int `json:"averageAccuracy" yaml:"average_accuracy"`
	BestWPM         int `json:"bestWpm" yaml:"best_wpm"`
}
