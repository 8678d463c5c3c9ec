// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/report"
	"github.com/verte-zerg/retype/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(0, 1)
)

var (
	sortCycle   = []string{model.SortDate, model.SortWPM, model.SortAccuracy}
	filterCycle = []string{model.FilterAll, model.FilterHigh, model.FilterLow}
)

// Store is the subset of the test store used by the browser.
type Store interface {
	ListTests(ctx context.Context, cfg model.HistoryConfig) ([]model.TestRecord, error)
	DeleteTest(ctx context.Context, id string) (bool, error)
}

// Model implements the Bubble Tea history UI.
type Model struct {
	store Store
	cfg   model.HistoryConfig
	now   func() time.Time

	records []model.TestRecord
	errMsg  string
	status  string

	table         table.Model
	detail        viewport.Model
	showDetail    bool
	confirmDelete bool

	width  int
	height int
}

// NewModel constructs a history UI model.
func NewModel(st Store, cfg model.HistoryConfig) *Model {
	if cfg.SortBy == "" {
		cfg.SortBy = model.SortDate
	}
	if cfg.Filter == "" {
		cfg.Filter = model.FilterAll
	}
	m := &Model{
		store:  st,
		cfg:    cfg,
		now:    time.Now,
		detail: viewport.New(0, 0),
	}
	m.table = table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
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
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.showDetail {
			return m.updateDetail(msg)
		}
		if m.confirmDelete {
			m.confirmDelete = false
			if msg.String() == "y" {
				m.deleteSelected()
			} else {
				m.status = "Delete cancelled."
			}
			return m, nil
		}
		switch msg.String() {
		case "s":
			m.cfg.SortBy = cycle(sortCycle, m.cfg.SortBy)
			m.refresh()
			return m, nil
		case "f":
			m.cfg.Filter = cycle(filterCycle, m.cfg.Filter)
			m.refresh()
			return m, nil
		case "d":
			if _, ok := m.selected(); ok {
				m.confirmDelete = true
			}
			return m, nil
		case "enter":
			m.openDetail()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "backspace":
		m.showDetail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showDetail {
		body := modalStyle.Render(m.detail.View())
		footer := headerStyle.Render("Scroll: up/down/pgup/pgdn  Back: esc  Quit: q")
		return fitLines(body, m.width, m.height-1) + "\n" + fitLines(footer, m.width, 1)
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	var body string
	if len(m.records) == 0 {
		body = "No tests match your filters."
	} else {
		body = tableMutedStyle.Render(m.table.View())
	}
	return strings.Join([]string{
		fitLines(header, m.width, lipgloss.Height(header)),
		fitLines(body, m.width, bodyHeight),
		fitLines(footer, m.width, lipgloss.Height(footer)),
	}, "\n")
}

func (m *Model) renderHeader() string {
	s := stats.Summarize(m.records)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Tests", fmt.Sprintf("%d", s.TotalTests)),
		metricCard("Avg WPM", fmt.Sprintf("%d", s.AverageWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", s.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%d%%", s.AverageAccuracy)),
	)
	wpm, _ := stats.Trend(m.records)
	settings := fmt.Sprintf("Sort=%s  filter=%s  trend [%s]", m.cfg.SortBy, m.cfg.Filter, stats.Sparkline(wpm))
	return cards + "\n" + headerStyle.Render(truncateLine(settings, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Move: up/down  Details: enter  Sort: s  Filter: f  Delete: d  Quit: q")
	switch {
	case m.confirmDelete:
		return help + "\n" + errorStyle.Render("Delete selected test? (y/N)")
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	case m.status != "":
		return help + "\n" + headerStyle.Render(m.status)
	}
	return help
}

func (m *Model) refresh() {
	records, err := m.store.ListTests(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		m.records = nil
		m.table.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.records = records
	m.table.SetRows(buildRows(records, m.now()))
	if m.table.Cursor() >= len(records) {
		m.table.SetCursor(max(0, len(records)-1))
	}
}

func (m *Model) selected() (model.TestRecord, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return model.TestRecord{}, false
	}
	return m.records[idx], true
}

func (m *Model) deleteSelected() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	deleted, err := m.store.DeleteTest(context.Background(), rec.ID)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to delete test: %v", err)
		return
	}
	if deleted {
		m.status = fmt.Sprintf("Deleted %s.", stats.ShortID(rec.ID))
	}
	m.refresh()
}

func (m *Model) openDetail() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteText(&buf, rec); err != nil {
		m.errMsg = fmt.Sprintf("failed to render report: %v", err)
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.detail.GotoTop()
	m.showDetail = true
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	header := lipgloss.Height(m.renderHeader())
	footer := lipgloss.Height(m.renderFooter()) + 1
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, m.height-header-footer))
	frameW, frameH := modalStyle.GetFrameSize()
	m.detail.Width = max(10, m.width-frameW)
	m.detail.Height = max(1, m.height-1-frameH)
}

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 24},
		{Title: "WPM", Width: 5},
		{Title: "CPM", Width: 5},
		{Title: "Acc", Width: 5},
		{Title: "Mistakes", Width: 8},
		{Title: "Time", Width: 6},
		{Title: "Completed", Width: 16},
	}
}

func buildRows(records []model.TestRecord, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			stats.ShortID(r.ID),
			truncateLine(r.Title, 24),
			fmt.Sprintf("%d", r.Result.WPM),
			fmt.Sprintf("%d", r.Result.CPM),
			fmt.Sprintf("%d%%", r.Result.Accuracy),
			fmt.Sprintf("%d", r.Result.Mistakes),
			stats.FormatDuration(r.Result.ElapsedSeconds),
			humanize.RelTime(r.CompletedAt, now, "ago", "from now"),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
