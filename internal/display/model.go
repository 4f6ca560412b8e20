// Package display is a terminal display instance: a thin consumer of the
// engine's output list. It registers itself, waits for data and error
// signals, and renders rows; all list shaping happens in the engine.
package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pullwatch/pullwatch/internal/engine"
	"github.com/pullwatch/pullwatch/models"
)

var (
	slate  = lipgloss.Color("#94A3B8")
	green  = lipgloss.Color("#22C55E")
	red    = lipgloss.Color("#EF4444")
	yellow = lipgloss.Color("#F59E0B")
	ink    = lipgloss.Color("#E5E7EB")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ink).Padding(0, 1)
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(red).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(slate)
	numberStyle = lipgloss.NewStyle().Bold(true).Foreground(ink)
	addStyle    = lipgloss.NewStyle().Foreground(green)
	delStyle    = lipgloss.NewStyle().Foreground(red)
	draftStyle  = lipgloss.NewStyle().Foreground(yellow)
	dimStyle    = lipgloss.NewStyle().Foreground(slate)
)

type signalMsg engine.Signal

// Model is the bubbletea model for the watch command.
type Model struct {
	eng      *engine.Engine
	id       string
	signals  <-chan engine.Signal
	pulls    []models.PullRequest
	errMsg   string
	received bool
	width    int
}

func NewModel(eng *engine.Engine, id string, signals <-chan engine.Signal) *Model {
	return &Model{eng: eng, id: id, signals: signals, width: 80}
}

// Run starts the bubbletea program.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	// First fetch happens immediately; the engine timer covers the rest.
	go m.eng.Fetch(m.id)
	return m.wait()
}

func (m *Model) wait() tea.Cmd {
	return func() tea.Msg {
		return signalMsg(<-m.signals)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			go m.eng.Fetch(m.id)
		}
	case signalMsg:
		m.received = true
		m.errMsg = msg.Err
		// An error signal still carries the last good list.
		m.pulls = msg.Pulls
		return m, m.wait()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("pullwatch · open pull requests"))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(bannerStyle.Render("! " + m.errMsg))
		b.WriteString("\n")
	}
	switch {
	case !m.received:
		b.WriteString(dimStyle.Render("  loading…"))
		b.WriteString("\n")
	case len(m.pulls) == 0:
		b.WriteString(dimStyle.Render("  no open pull requests"))
		b.WriteString("\n")
	default:
		for _, pr := range m.pulls {
			b.WriteString(renderRow(pr, m.width))
			b.WriteString("\n")
		}
	}
	b.WriteString(dimStyle.Render("  r refresh · q quit"))
	return b.String()
}

func renderRow(pr models.PullRequest, width int) string {
	title := pr.Title
	if max := width - 30; max > 10 && len(title) > max {
		title = title[:max-1] + "…"
	}
	row := fmt.Sprintf("  %s %s %s",
		labelStyle.Render(pr.Label),
		numberStyle.Render(fmt.Sprintf("#%d", pr.Number)),
		title,
	)
	meta := fmt.Sprintf("%s %s %s · %s · %s",
		addStyle.Render(fmt.Sprintf("+%d", pr.Additions)),
		delStyle.Render(fmt.Sprintf("-%d", pr.Deletions)),
		dimStyle.Render(fmt.Sprintf("~%d files", pr.ChangedFiles)),
		dimStyle.Render(pr.Author.Login),
		dimStyle.Render(humanize.Time(pr.UpdatedAt)),
	)
	if pr.Draft {
		meta += " " + draftStyle.Render("draft")
	}
	return row + "\n    " + meta
}
