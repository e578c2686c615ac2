package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pmprep/internal/modules/history/dto"
	"pmprep/internal/ui/components"
	"pmprep/internal/ui/theme"
)

type DashboardPort interface {
	Dashboard(ctx context.Context) (historydto.DashboardOutput, error)
}

type LoadedMsg struct {
	Stats historydto.DashboardOutput
	Err   error
}

type Model struct {
	port    DashboardPort
	stats   historydto.DashboardOutput
	spinner spinner.Model
	loading bool
	loadErr string
	width   int
	height  int
}

func New(port DashboardPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

// Reload refetches the stats, e.g. after a practice session ends.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadErr = msg.Err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.stats = msg.Stats

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading stats…")
	}
	if m.loadErr != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Warn.Render("dashboard: "+m.loadErr))
	}

	s := m.stats
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Your Progress") + "\n\n")
	sb.WriteString(theme.Muted.Render("sessions:  ") + fmt.Sprintf("%d\n", s.SessionsCount))
	sb.WriteString(theme.Muted.Render("questions: ") + fmt.Sprintf("%d\n", s.QuestionsCount))
	sb.WriteString(theme.Muted.Render("average:   ") +
		theme.ScoreStyle(int(s.AverageScore+0.5)).Render(fmt.Sprintf("%.1f", s.AverageScore)) + "\n")
	sb.WriteString(theme.Muted.Render("best:      ") +
		theme.ScoreStyle(int(s.BestScore+0.5)).Render(fmt.Sprintf("%.1f", s.BestScore)) + "\n")

	if len(s.ByCategory) > 0 {
		sb.WriteString("\n" + theme.Title.Render("By category") + "\n")
		cats := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			sb.WriteString(components.ScoreBar(c, int(s.ByCategory[c]+0.5)) + "\n")
		}
	}

	if len(s.RecentScores) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Recent") + "\n")
		sb.WriteString(sparkline(s.RecentScores) + "\n")
	}

	if s.SessionsCount == 0 {
		sb.WriteString("\n" + theme.Muted.Render("No sessions yet. Start one from the Practice tab."))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline maps 0..10 scores onto eight block heights, oldest first.
func sparkline(scores []float64) string {
	var sb strings.Builder
	for _, s := range scores {
		idx := int(s / 10 * float64(len(sparkRunes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		sb.WriteString(theme.ScoreStyle(int(s + 0.5)).Render(string(sparkRunes[idx])))
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.port.Dashboard(context.Background())
		return LoadedMsg{Stats: stats, Err: err}
	}
}
