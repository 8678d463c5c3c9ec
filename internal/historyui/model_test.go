package historyui

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
)

type fakeStore struct {
	records []model.TestRecord
	lastCfg model.HistoryConfig
}

func (s *fakeStore) ListTests(_ context.Context, cfg model.HistoryConfig) ([]model.TestRecord, error) {
	s.lastCfg = cfg
	out := append([]model.TestRecord(nil), s.records...)
	if cfg.SortBy == model.SortWPM {
		sort.Slice(out, func(i, j int) bool { return out[i].Result.WPM > out[j].Result.WPM })
	}
	return out, nil
}

func (s *fakeStore) DeleteTest(_ context.Context, id string) (bool, error) {
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newStore() *fakeStore {
	at := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	return &fakeStore{records: []model.TestRecord{
		{ID: "slow-test", Title: "Slow", Reference: "abc", Typed: "abc", Result: analysis.Analyze("abc", "abc", 60), CompletedAt: at},
		{ID: "fast-test", Title: "Fast", Reference: "abc", Typed: "abd", Result: analysis.Analyze("abc", "abd", 1), CompletedAt: at},
	}}
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCycleSortAndFilter(t *testing.T) {
	st := newStore()
	m := NewModel(st, model.HistoryConfig{})
	m.Update(key("s"))
	if st.lastCfg.SortBy != model.SortWPM {
		t.Fatalf("expected wpm sort, got %q", st.lastCfg.SortBy)
	}
	if m.records[0].ID != "fast-test" {
		t.Fatalf("expected fastest first, got %s", m.records[0].ID)
	}
	m.Update(key("s"))
	m.Update(key("s"))
	if m.cfg.SortBy != model.SortDate {
		t.Fatalf("expected sort to wrap to date, got %q", m.cfg.SortBy)
	}
	m.Update(key("f"))
	if st.lastCfg.Filter != model.FilterHigh {
		t.Fatalf("expected high filter, got %q", st.lastCfg.Filter)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	st := newStore()
	m := NewModel(st, model.HistoryConfig{})
	m.Update(key("d"))
	m.Update(key("n"))
	if len(st.records) != 2 {
		t.Fatalf("expected delete to be cancelled")
	}
	m.Update(key("d"))
	m.Update(key("y"))
	if len(st.records) != 1 || len(m.records) != 1 {
		t.Fatalf("expected one record after delete, got %d", len(st.records))
	}
	if !strings.Contains(m.status, "Deleted") {
		t.Fatalf("expected delete status, got %q", m.status)
	}
}

func TestDetailShowsReport(t *testing.T) {
	m := NewModel(newStore(), model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(key("enter"))
	if !m.showDetail {
		t.Fatalf("expected detail view")
	}
	if !strings.Contains(m.View(), "TYPING TEST REPORT") {
		t.Fatalf("expected report text in detail view")
	}
	m.Update(key("esc"))
	if m.showDetail {
		t.Fatalf("expected esc to close detail view")
	}
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(&fakeStore{}, model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "No tests match") {
		t.Fatalf("expected empty message")
	}
	m.Update(key("enter"))
	if m.showDetail {
		t.Fatalf("detail should not open without records")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(newStore(), model.HistoryConfig{})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
