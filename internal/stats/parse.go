package stats

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/retype/internal/model"
)

// ParseSort validates a history sort key. Empty means by date.
func ParseSort(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return model.SortDate, nil
	case model.SortDate, model.SortWPM, model.SortAccuracy:
		return v, nil
	default:
		return "", fmt.Errorf("sort must be date, wpm or accuracy, got %q", s)
	}
}

// ParseFilter validates a history filter. Empty means all.
func ParseFilter(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return model.FilterAll, nil
	case model.FilterAll, model.FilterHigh, model.FilterLow:
		return v, nil
	default:
		return "", fmt.Errorf("filter must be all, high or low, got %q", s)
	}
}
