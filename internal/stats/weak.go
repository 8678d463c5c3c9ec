package stats

import (
	"sort"

	"github.com/verte-zerg/retype/internal/model"
)

// CharCount counts mistakes for one expected character.
type CharCount struct {
	Char  string
	Count int
}

// WeakChars returns the expected characters missed most often across records.
func WeakChars(records []model.TestRecord, top int) []CharCount {
	counts := map[string]int{}
	for _, r := range records {
		for _, m := range r.Result.MistakeDetails {
			counts[m.Expected]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	out := make([]CharCount, 0, len(counts))
	for ch, n := range counts {
		out = append(out, CharCount{Char: ch, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Char < out[j].Char
		}
		return out[i].Count > out[j].Count
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
