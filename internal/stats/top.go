package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/retype/internal/model"
)

// TopMistakeWords returns the n words with the most mistakes across records.
func TopMistakeWords(records []model.TestRecord, n int) []string {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	type item struct {
		word  string
		total int
	}
	totals := map[string]int{}
	for _, r := range records {
		for _, m := range r.Result.MistakeDetails {
			word := strings.ToLower(m.Word)
			if word == "" {
				continue
			}
			totals[word]++
		}
	}
	items := make([]item, 0, len(totals))
	for word, total := range totals {
		items = append(items, item{word: word, total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].word < items[j].word
		}
		return items[i].total > items[j].total
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].word)
	}
	return out
}
