package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

type fakeRecorder struct {
	records []model.TestRecord
	err     error
}

func (r *fakeRecorder) InsertTest(_ context.Context, rec model.TestRecord) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.records = append(r.records, rec)
	return "0123456789", nil
}

type fakeAdvisor struct {
	tips []string
}

func (a fakeAdvisor) Advise(context.Context, string, analysis.Result) ([]string, error) {
	return a.tips, nil
}

func typeText(m *Model, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func newTestModel(reference string, cfg model.Config) (*Model, *fakeClock, *fakeRecorder) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rec := &fakeRecorder{}
	m := NewModel(reference, Options{Config: cfg, Store: rec, Now: clock.now})
	return m, clock, rec
}

func TestAutoCompleteAtReferenceLength(t *testing.T) {
	m, clock, rec := newTestModel("hello world", model.Config{Source: model.SourcePasted})
	typeText(m, "h")
	clock.t = clock.t.Add(6 * time.Second)
	typeText(m, "ello wprld")

	if m.phase != phaseResults {
		t.Fatalf("expected results phase, got %v", m.phase)
	}
	if len(rec.records) != 1 {
		t.Fatalf("expected one saved record, got %d", len(rec.records))
	}
	got := rec.records[0]
	if got.Result.ElapsedSeconds != 6 || got.Result.Mistakes != 1 {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if got.Result.WPM != 20 {
		t.Fatalf("expected 20 wpm, got %d", got.Result.WPM)
	}
	if r, ok := m.Record(); !ok || r.ID != "0123456789" {
		t.Fatalf("expected record with saved id, got %+v", r)
	}
	if !strings.Contains(m.View(), "Saved as 01234567") {
		t.Fatalf("expected saved notice in view")
	}
}

func TestSubmitRequiresEightyPercent(t *testing.T) {
	m, _, rec := newTestModel("abcdefghij", model.Config{})
	typeText(m, "abcdefgh")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.phase != phaseTyping || len(rec.records) != 0 {
		t.Fatalf("submit at exactly 80%% should be refused")
	}
	if m.notice == "" {
		t.Fatalf("expected a notice explaining the refusal")
	}
	typeText(m, "i")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.phase != phaseResults || len(rec.records) != 1 {
		t.Fatalf("expected submit to succeed at 90%%")
	}
}

func TestMemorizePhase(t *testing.T) {
	m, _, _ := newTestModel("secret text", model.Config{Memorize: true})
	if m.phase != phaseMemorize {
		t.Fatalf("expected memorize phase")
	}
	typeText(m, "x")
	if len(m.input) != 0 {
		t.Fatalf("typing during memorize should be ignored")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseTyping {
		t.Fatalf("expected typing phase after enter")
	}
	typeText(m, "sec")
	if strings.Contains(m.viewTyping(), "text") {
		t.Fatalf("reference should be hidden while typing from memory")
	}
}

func TestRestartAndRetry(t *testing.T) {
	m, _, _ := newTestModel("ab", model.Config{})
	typeText(m, "a")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if len(m.input) != 0 || m.started {
		t.Fatalf("expected restart to clear input")
	}
	typeText(m, "ab")
	if m.phase != phaseResults {
		t.Fatalf("expected results phase")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.phase != phaseTyping || m.reference != "ab" {
		t.Fatalf("expected retry with same text")
	}
}

func TestNewTextFromNext(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewModel("ab", Options{Now: clock.now, Next: func() (string, error) { return "cd", nil }})
	typeText(m, "ab")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.reference != "cd" || m.phase != phaseTyping {
		t.Fatalf("expected new reference, got %q", m.reference)
	}
}

func TestSaveErrorShown(t *testing.T) {
	m, _, rec := newTestModel("ab", model.Config{})
	rec.err = errors.New("disk full")
	typeText(m, "ab")
	if m.saveErr == nil || !strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected save error in view")
	}
}

func TestCoachTipsArrive(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewModel("ab", Options{Now: clock.now, Coach: fakeAdvisor{tips: []string{"Relax your wrists"}}})
	cmd := typeText(m, "ab")
	if cmd == nil || !m.coachBusy {
		t.Fatalf("expected coach command after completion")
	}
	m.Update(cmd())
	if m.coachBusy || !strings.Contains(m.View(), "Relax your wrists") {
		t.Fatalf("expected coach tips in view")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, clock, _ := newTestModel("abcd", model.Config{})
	typeText(m, "a")
	clock.t = clock.t.Add(3 * time.Second)
	typeText(m, "x")
	out := m.renderFooter()
	for _, want := range []string{"Time 0:03", "WPM 4", "CPM 20", "Accuracy 50%", "Progress 50%", "Ctrl+R restart"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "Ctrl+S") {
		t.Fatalf("submit hint should be hidden below threshold: %s", out)
	}
}
