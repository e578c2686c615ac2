package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pmprep/internal/modules/history/dto"
	"pmprep/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	List(ctx context.Context) ([]historydto.SessionOutput, error)
	Detail(ctx context.Context, id string) (historydto.SessionDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []historydto.SessionOutput
	Err      error
}

type DetailLoadedMsg struct {
	Detail historydto.SessionDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session historydto.SessionOutput
}

func (i sessionItem) Title() string {
	return i.session.StartedAt.Format("Mon 2 Jan 15:04")
}

func (i sessionItem) Description() string {
	return fmt.Sprintf("%d questions  avg %.1f", i.session.QuestionsCount, i.session.OverallScore)
}

func (i sessionItem) FilterValue() string {
	return strings.Join(i.session.Categories, " ")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	list    list.Model
	detail  historydto.SessionDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Past Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSessionsCmd(), m.spinner.Tick)
}

// Reload refetches the session list, e.g. after a practice session ends.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return m.loadSessionsCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SessionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Past Sessions: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Sessions) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Sessions[0].ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.session.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select a session to see its answers")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.StartedAt.Format("Monday 2 January 2006, 15:04")) + "\n\n")
	sb.WriteString(theme.Muted.Render("questions: ") + fmt.Sprintf("%d\n", d.QuestionsCount))
	sb.WriteString(theme.Muted.Render("average:   ") +
		theme.ScoreStyle(int(d.OverallScore+0.5)).Render(fmt.Sprintf("%.1f", d.OverallScore)) + "\n")
	if len(d.Categories) > 0 {
		sb.WriteString(theme.Muted.Render("covered:   ") + strings.Join(d.Categories, ", ") + "\n")
	}
	for i, a := range d.Answers {
		sb.WriteString("\n" + theme.Hot.Render(fmt.Sprintf("Q%d  %s  ", i+1, a.Category)) +
			theme.ScoreStyle(a.Overall).Render(fmt.Sprintf("%d/10", a.Overall)) + "\n")
		sb.WriteString(a.Prompt + "\n")
		if a.Feedback != "" {
			sb.WriteString(theme.Muted.Render(a.Feedback) + "\n")
		}
	}
	return sb.String()
}

func (m Model) loadSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background())
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Detail(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
