package stats

import (
	"context"

	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Records    []model.TestRecord
	Summary    model.Summary
	WeakChars  []CharCount
	TopWords   []string
	TrendWPM   []float64
	TrendAcc   []float64
	TrendWidth int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig, window int) (Report, error) {
	records, err := st.ListTests(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	wpm, acc := Trend(records)
	return Report{
		Records:    records,
		Summary:    Summarize(records),
		WeakChars:  WeakChars(records, 8),
		TopWords:   TopMistakeWords(records, 5),
		TrendWPM:   MovingAverage(wpm, window),
		TrendAcc:   MovingAverage(acc, window),
		TrendWidth: window,
	}, nil
}
