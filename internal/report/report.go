// Package report renders completed tests as downloadable reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the structured form of a report.
type Document struct {
	Test           model.TestRecord `json:"test" yaml:"test"`
	TimeEfficiency int              `json:"timeEfficiency" yaml:"time_efficiency"`
	Level          analysis.Level   `json:"level" yaml:"level"`
}

// NewDocument wraps a record with derived presentation values.
func NewDocument(rec model.TestRecord) Document {
	return Document{
		Test:           rec,
		TimeEfficiency: analysis.TimeEfficiency(rec.Result.ExpectedSeconds, rec.Result.ElapsedSeconds),
		Level:          analysis.PerformanceLevel(rec.Result.WPM, rec.Result.Accuracy),
	}
}

// Write renders rec in the requested format.
func Write(w io.Writer, format string, rec model.TestRecord) error {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return WriteText(w, rec)
	case FormatJSON:
		return WriteJSON(w, rec)
	case FormatYAML, "yml":
		return WriteYAML(w, rec)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteText renders the plain-text report.
func WriteText(w io.Writer, rec model.TestRecord) error {
	res := rec.Result
	at := rec.CompletedAt.Local()

	var b strings.Builder
	b.WriteString("TYPING TEST REPORT\n")
	b.WriteString("==================\n\n")
	fmt.Fprintf(&b, "Date: %s\n", at.Format("2006-01-02"))
	fmt.Fprintf(&b, "Time: %s\n\n", at.Format("15:04:05"))

	b.WriteString("RESULTS:\n")
	b.WriteString("--------\n")
	fmt.Fprintf(&b, "Words Per Minute: %d WPM\n", res.WPM)
	fmt.Fprintf(&b, "Characters Per Minute: %d CPM\n", res.CPM)
	fmt.Fprintf(&b, "Accuracy: %d%%\n", res.Accuracy)
	fmt.Fprintf(&b, "Total Time: %s\n", clock(res.ElapsedSeconds))
	fmt.Fprintf(&b, "Expected Time: %s\n", clock(float64(res.ExpectedSeconds)))
	fmt.Fprintf(&b, "Time Efficiency: %d%%\n", analysis.TimeEfficiency(res.ExpectedSeconds, res.ElapsedSeconds))
	fmt.Fprintf(&b, "Mistakes: %d\n\n", res.Mistakes)

	b.WriteString("IMPROVEMENT SUGGESTIONS:\n")
	b.WriteString("------------------------\n")
	for _, s := range res.Suggestions {
		fmt.Fprintf(&b, "• %s\n", s)
	}
	b.WriteString("\n")

	b.WriteString("MISTAKE ANALYSIS:\n")
	b.WriteString("-----------------\n")
	if len(res.MistakeDetails) == 0 {
		b.WriteString("No mistakes found!\n")
	}
	for _, m := range res.MistakeDetails {
		fmt.Fprintf(&b, "Position %d: Expected %q, Typed %q (in word %q)\n", m.Position, m.Expected, m.Typed, m.Word)
	}
	b.WriteString("\n")

	b.WriteString("TEXT USED:\n")
	b.WriteString("----------\n")
	b.WriteString(rec.Reference)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, rec model.TestRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(rec))
}

// WriteYAML renders the report as YAML.
func WriteYAML(w io.Writer, rec model.TestRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(rec)); err != nil {
		return err
	}
	return enc.Close()
}

// FileName returns the report file name for a test completed at t.
func FileName(t time.Time, format string) string {
	ext := ".txt"
	switch strings.ToLower(format) {
	case FormatJSON:
		ext = ".json"
	case FormatYAML, "yml":
		ext = ".yaml"
	}
	return "typing-test-report-" + t.UTC().Format("2006-01-02") + ext
}

// Save writes the report into dir and returns the file path.
func Save(dir, format string, rec model.TestRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}
	path := filepath.Join(dir, FileName(rec.CompletedAt, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	if err := Write(file, format, rec); err != nil {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close; the write error is reported.
			_ = cerr
		}
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close report: %w", err)
	}
	return path, nil
}

func clock(seconds float64) string {
	total := int(math.Floor(seconds + 0.5))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
