// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
)

type phase int

const (
	phaseMemorize phase = iota
	phaseTyping
	phaseResults
)

const coachTimeout = 30 * time.Second

// Recorder persists completed tests.
type Recorder interface {
	InsertTest(ctx context.Context, rec model.TestRecord) (string, error)
}

// Advisor produces extra tips for a completed test.
type Advisor interface {
	Advise(ctx context.Context, reference string, res analysis.Result) ([]string, error)
}

// Options wires optional collaborators into the typing UI.
type Options struct {
	Config model.Config
	Store  Recorder
	Coach  Advisor
	// Next supplies fresh text for the "new text" key. Nil disables it.
	Next func() (string, error)
	Now  func() time.Time
}

type tickMsg time.Time

type coachMsg struct {
	tips []string
	err  error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	store  Recorder
	coach  Advisor
	next   func() (string, error)
	now    func() time.Time

	width  int
	height int

	phase     phase
	reference string
	refRunes  []rune
	input     []rune

	started   bool
	startedAt time.Time

	record    model.TestRecord
	savedID   string
	saveErr   error
	coachBusy bool
	coachTips []string
	coachErr  error
	notice    string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	missingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")).Underline(true)
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

// NewModel constructs a typing TUI model for reference.
func NewModel(reference string, opts Options) *Model {
	m := &Model{
		config: opts.Config,
		store:  opts.Store,
		coach:  opts.Coach,
		next:   opts.Next,
		now:    opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.setReference(reference)
	return m
}

// Record returns the last completed test, if any.
func (m *Model) Record() (model.TestRecord, bool) {
	return m.record, !m.record.CompletedAt.IsZero()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.phase == phaseTyping && m.started {
			return m, tick()
		}
		return m, nil
	case coachMsg:
		m.coachBusy = false
		m.coachTips = msg.tips
		m.coachErr = msg.err
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseMemorize:
			return m.updateMemorize(msg)
		case phaseTyping:
			return m.updateTyping(msg)
		default:
			return m.updateResults(msg)
		}
	default:
		return m, nil
	}
}

func (m *Model) updateMemorize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.phase = phaseTyping
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.restart()
		return m, nil
	case tea.KeyCtrlS:
		if !analysis.CanSubmit(len(m.refRunes), len(m.input)) {
			m.notice = "Keep typing: more than 80% of the text is needed to submit."
			return m, nil
		}
		return m, m.finish()
	case tea.KeyBackspace, tea.KeyDelete:
		m.handleBackspace()
		return m, nil
	case tea.KeySpace:
		return m, m.handleRunes([]rune{' '})
	case tea.KeyEnter:
		return m, m.handleRunes([]rune{'\n'})
	case tea.KeyRunes:
		return m, m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "r":
			m.restart()
		case "n":
			if m.next == nil {
				return m, nil
			}
			text, err := m.next()
			if err != nil {
				m.notice = fmt.Sprintf("failed to load new text: %v", err)
				return m, nil
			}
			m.setReference(text)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content, footer string
	switch m.phase {
	case phaseMemorize:
		content = m.viewMemorize()
		footer = footerStyle.Render("Memorize the text, then press Enter to start typing from memory")
	case phaseTyping:
		content = m.viewTyping()
		footer = m.renderFooter()
	default:
		content = m.viewResults()
		footer = m.resultsHelp()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	contentWidth := m.contentWidth()
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) viewMemorize() string {
	title := titleStyle.Render(m.titleText())
	return title + "\n\n" + wrapStyledRunes(plainRunes(m.refRunes, correctStyle), m.contentWidth())
}

func (m *Model) viewTyping() string {
	var body string
	if m.config.Memorize {
		// Reference stays hidden; only what was typed is shown.
		typed := plainRunes(m.input, correctStyle)
		typed = append(typed, styledRune{s: cursorStyle.Render(" "), width: 1, isSpace: true})
		body = wrapStyledRunes(typed, m.contentWidth())
	} else {
		cursorIndex := -1
		if len(m.input) < len(m.refRunes) {
			cursorIndex = len(m.input)
		}
		body = wrapStyledRunes(buildStyledRunes(m.refRunes, m.input, cursorIndex), m.contentWidth())
	}
	if m.notice != "" {
		body += "\n\n" + hintStyle.Render(m.notice)
	}
	return body
}

func (m *Model) viewResults() string {
	res := m.record.Result
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", m.titleText(), analysis.PerformanceLevel(res.WPM, res.Accuracy))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "WPM %d  ·  CPM %d  ·  Accuracy %d%%  ·  Mistakes %d\n", res.WPM, res.CPM, res.Accuracy, res.Mistakes)
	fmt.Fprintf(&b, "Time %s  ·  Expected %s  ·  Efficiency %d%%\n\n",
		clock(res.ElapsedSeconds), clock(float64(res.ExpectedSeconds)),
		analysis.TimeEfficiency(res.ExpectedSeconds, res.ElapsedSeconds))

	diffs := analysis.ComputeDiff(m.record.Reference, m.record.Typed)
	b.WriteString(wrapStyledRunes(buildDiffRunes(diffs), m.contentWidth()))
	b.WriteString("\n\n")

	for _, s := range res.Suggestions {
		b.WriteString("• " + s + "\n")
	}
	switch {
	case m.coachBusy:
		b.WriteString(hintStyle.Render("Asking the coach for tips...") + "\n")
	case m.coachErr != nil:
		b.WriteString(hintStyle.Render(fmt.Sprintf("Coach unavailable: %v", m.coachErr)) + "\n")
	case len(m.coachTips) > 0:
		b.WriteString("\nCoach:\n")
		for _, tip := range m.coachTips {
			b.WriteString("• " + tip + "\n")
		}
	}
	if m.saveErr != nil {
		b.WriteString("\n" + incorrectStyle.Render(fmt.Sprintf("Not saved: %v", m.saveErr)))
	} else if m.savedID != "" {
		b.WriteString("\n" + hintStyle.Render("Saved as "+shortID(m.savedID)))
	}
	if m.notice != "" {
		b.WriteString("\n" + hintStyle.Render(m.notice))
	}
	return b.String()
}

func (m *Model) resultsHelp() string {
	parts := []string{"r retry"}
	if m.next != nil {
		parts = append(parts, "n new text")
	}
	parts = append(parts, "q quit")
	return footerStyle.Render(strings.Join(parts, "  ·  "))
}

func (m *Model) titleText() string {
	if m.config.Title != "" {
		return m.config.Title
	}
	return "Typing Test"
}

func (m *Model) setReference(reference string) {
	m.reference = reference
	m.refRunes = []rune(reference)
	m.restart()
}

func (m *Model) restart() {
	m.input = nil
	m.started = false
	m.startedAt = time.Time{}
	m.notice = ""
	m.savedID = ""
	m.saveErr = nil
	m.coachBusy = false
	m.coachTips = nil
	m.coachErr = nil
	if m.config.Memorize {
		m.phase = phaseMemorize
	} else {
		m.phase = phaseTyping
	}
}

func (m *Model) handleBackspace() {
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range runes {
		if analysis.IsComplete(len(m.refRunes), len(m.input)) {
			break
		}
		if !m.started {
			m.started = true
			m.startedAt = m.now()
			cmd = tick()
		}
		m.notice = ""
		m.input = append(m.input, r)
		if analysis.IsComplete(len(m.refRunes), len(m.input)) {
			return m.finish()
		}
	}
	return cmd
}

func (m *Model) elapsedSeconds() float64 {
	if !m.started {
		return 0
	}
	return m.now().Sub(m.startedAt).Seconds()
}

func (m *Model) finish() tea.Cmd {
	typed := string(m.input)
	elapsed := m.elapsedSeconds()
	baseline := m.config.BaselineWPM
	if baseline <= 0 {
		baseline = analysis.DefaultBaselineWPM
	}
	m.record = model.TestRecord{
		Title:       m.titleText(),
		Source:      m.config.Source,
		Filename:    m.config.Filename,
		Reference:   m.reference,
		Typed:       typed,
		Result:      analysis.AnalyzeWithBaseline(m.reference, typed, elapsed, baseline),
		CompletedAt: m.now(),
	}
	m.phase = phaseResults
	m.notice = ""

	if m.store != nil {
		id, err := m.store.InsertTest(context.Background(), m.record)
		if err != nil {
			logErrf("failed to save test: %v\n", err)
			m.saveErr = err
		} else {
			m.savedID = id
			m.record.ID = id
		}
	}

	if m.coach == nil {
		return nil
	}
	m.coachBusy = true
	return adviseCmd(m.coach, m.record.Reference, m.record.Result)
}

func adviseCmd(c Advisor, reference string, res analysis.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), coachTimeout)
		defer cancel()
		tips, err := c.Advise(ctx, reference, res)
		return coachMsg{tips: tips, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) renderFooter() string {
	if len(m.refRunes) == 0 {
		return ""
	}
	typed := string(m.input)
	elapsed := m.elapsedSeconds()
	correct := analysis.CountCorrect(m.reference, typed)
	progress := len(m.input) * 100 / len(m.refRunes)
	segments := []string{
		fmt.Sprintf("Time %s", clock(elapsed)),
		fmt.Sprintf("WPM %d", analysis.WPM(correct, elapsed)),
		fmt.Sprintf("CPM %d", analysis.CPM(correct, elapsed)),
		fmt.Sprintf("Accuracy %d%%", analysis.Accuracy(correct, len(m.input))),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if analysis.CanSubmit(len(m.refRunes), len(m.input)) {
		segments = append(segments, "Ctrl+S submit")
	}
	segments = append(segments, "Ctrl+R restart")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func clock(seconds float64) string {
	total := int(seconds + 0.5)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
