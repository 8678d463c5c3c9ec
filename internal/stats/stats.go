// Package stats contains history statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/retype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summarize computes averages and the best speed over records.
func Summarize(records []model.TestRecord) model.Summary {
	if len(records) == 0 {
		return model.Summary{}
	}
	var totalWPM, totalAcc, best int
	for _, r := range records {
		totalWPM += r.Result.WPM
		totalAcc += r.Result.Accuracy
		if r.Result.WPM > best {
			best = r.Result.WPM
		}
	}
	count := float64(len(records))
	return model.Summary{
		TotalTests:      len(records),
		AverageWPM:      int(math.Floor(float64(totalWPM)/count + 0.5)),
		AverageAccuracy: int(math.Floor(float64(totalAcc)/count + 0.5)),
		BestWPM:         best,
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Trend returns chronological WPM and accuracy series for records.
// Records are expected newest first, as the store lists them.
func Trend(records []model.TestRecord) (wpm, accuracy []float64) {
	wpm = make([]float64, len(records))
	accuracy = make([]float64, len(records))
	for i, r := range records {
		j := len(records) - 1 - i
		wpm[j] = float64(r.Result.WPM)
		accuracy[j] = float64(r.Result.Accuracy)
	}
	return wpm, accuracy
}

// RenderSummary prints aggregate numbers and trend lines for records.
func RenderSummary(w io.Writer, records []model.TestRecord, window int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No tests completed yet.")
		return err
	}
	s := Summarize(records)
	wpm, acc := Trend(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", s.TotalTests),
		fmt.Sprintf("Avg WPM: %d", s.AverageWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %d%%", s.AverageAccuracy),
		fmt.Sprintf("WPM trend:      [%s]", Sparkline(MovingAverage(wpm, window))),
		fmt.Sprintf("Accuracy trend: [%s]", Sparkline(MovingAverage(acc, window))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTable prints one row per record.
func RenderTable(w io.Writer, records []model.TestRecord, now time.Time) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No tests match your filters.")
		return err
	}
	cols := []column{
		{title: "ID"},
		{title: "Title"},
		{title: "WPM", numeric: true},
		{title: "CPM", numeric: true},
		{title: "Accuracy", numeric: true},
		{title: "Mistakes", numeric: true},
		{title: "Time", numeric: true},
		{title: "Completed"},
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			ShortID(r.ID),
			truncate(r.Title, 28),
			fmt.Sprintf("%d", r.Result.WPM),
			fmt.Sprintf("%d", r.Result.CPM),
			fmt.Sprintf("%d%%", r.Result.Accuracy),
			fmt.Sprintf("%d", r.Result.Mistakes),
			FormatDuration(r.Result.ElapsedSeconds),
			humanize.RelTime(r.CompletedAt, now, "ago", "from now"),
		})
	}
	for _, line := range layoutTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds float64) string {
	total := int(math.Floor(seconds + 0.5))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ShortID returns the leading segment of a record id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
