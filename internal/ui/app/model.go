package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "pmprep/internal/modules/auth/dto"
	billingdto "pmprep/internal/modules/billing/dto"
	exporterdto "pmprep/internal/modules/exporter/dto"
	historydto "pmprep/internal/modules/history/dto"
	interviewdto "pmprep/internal/modules/interview/dto"
	interviewin "pmprep/internal/modules/interview/port/in"
	usagedto "pmprep/internal/modules/usage/dto"
	"pmprep/internal/ui/components"
	"pmprep/internal/ui/theme"
	accountview "pmprep/internal/ui/views/account"
	dashboardview "pmprep/internal/ui/views/dashboard"
	historyview "pmprep/internal/ui/views/history"
	practiceview "pmprep/internal/ui/views/practice"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type interviewPort interface {
	Start(ctx context.Context, category string) (interviewin.Update, error)
	Clarify(ctx context.Context, text string) (interviewin.Update, error)
	Submit(ctx context.Context, text string, elapsedSeconds int) (interviewin.Update, error)
	Next(ctx context.Context) (interviewin.Update, error)
	ViewModelAnswer(ctx context.Context) (interviewin.Update, error)
	CloseModelAnswer(ctx context.Context) (interviewin.Update, error)
	End(ctx context.Context) (interviewin.Update, error)
	Categories(ctx context.Context) ([]interviewdto.Category, error)
}

type voicePort interface {
	StartRecording(ctx context.Context) error
	StopAndTranscribe(ctx context.Context) (string, error)
	Speak(ctx context.Context, text string) error
}

type historyPort interface {
	List(ctx context.Context) ([]historydto.SessionOutput, error)
	Detail(ctx context.Context, id string) (historydto.SessionDetailOutput, error)
	Dashboard(ctx context.Context) (historydto.DashboardOutput, error)
}

type authPort interface {
	Login(ctx context.Context, email, password string) (authdto.AccountOutput, error)
	Register(ctx context.Context, email, password string) (authdto.AccountOutput, error)
	GoogleURL(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) authdto.AccountOutput
}

type usagePort interface {
	Status(ctx context.Context) (usagedto.StatusOutput, error)
}

type billingPort interface {
	Upgrade(ctx context.Context) (string, error)
	Cancel(ctx context.Context) error
	Status(ctx context.Context) (billingdto.SubscriptionOutput, error)
}

type exporterPort interface {
	Export(ctx context.Context, exporter, format, outputDir string) (exporterdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPractice tabID = iota
	tabDashboard
	tabHistory
	tabAccount
	tabCount
)

var tabLabels = [tabCount]string{
	"Practice", "Dashboard", "History", "Account",
}

// ─── async messages ───────────────────────────────────────────────────────────

// backgroundUpdateMsg wraps one receive from the interview update stream so
// the channel read can be re-armed separately from direct call results.
type backgroundUpdateMsg struct {
	update interviewin.Update
	ok     bool
}

type exportDoneMsg struct {
	out exporterdto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Clarify key.Binding
	Record  key.Binding
	Next    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit answer")),
		Clarify: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "ask clarification")),
		Record:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record answer")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next question")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Palette},
		{k.Submit, k.Clarify, k.Record, k.Next},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global help
// overlay, the command palette, and the bridge from the interview module's
// background update stream into the message loop. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	// ports used at this orchestration level only
	interview interviewPort
	auth      authPort
	billing   billingPort
	exporter  exporterPort
	updates   <-chan interviewin.Update

	// sub-views (one per tab)
	practiceView  practiceview.Model
	dashboardView dashboardview.Model
	historyView   historyview.Model
	accountView   accountview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	interview interviewPort,
	voice voicePort,
	hist historyPort,
	auth authPort,
	usage usagePort,
	billing billingPort,
	exporter exporterPort,
	updates <-chan interviewin.Update,
) Model {
	return Model{
		interview:     interview,
		auth:          auth,
		billing:       billing,
		exporter:      exporter,
		updates:       updates,
		practiceView:  practiceview.New(interview, voice),
		dashboardView: dashboardview.New(historyBridge{p: hist}),
		historyView:   historyview.New(historyBridge{p: hist}),
		accountView:   accountview.New(authBridge{p: auth}, usageBridge{p: usage}, billingBridge{p: billing}),
		activeTab:     tabPractice,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.practiceView.Init(),
		m.dashboardView.Init(),
		m.historyView.Init(),
		m.accountView.Init(),
		m.waitForUpdateCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case backgroundUpdateMsg:
		if !msg.ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.practiceView, cmd = m.practiceView.Update(practiceview.UpdateMsg{Update: msg.update})
		return m, tea.Batch(cmd, m.waitForUpdateCmd())

	// Direct call results route to the practice view even when another tab
	// is active, so a slow score never lands on the wrong view.
	case practiceview.UpdateMsg:
		var cmd tea.Cmd
		m.practiceView, cmd = m.practiceView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Update.Summary != nil {
			// A session just closed; the aggregates are stale.
			cmds = append(cmds, m.dashboardView.Reload(), m.historyView.Reload())
			m.status = fmt.Sprintf("session saved: %d questions, avg %.1f",
				msg.Update.Summary.QuestionsCount, msg.Update.Summary.OverallScore)
		}
		return m, tea.Batch(cmds...)

	case practiceview.UpgradeRequestedMsg:
		m.activeTab = tabAccount
		return m, m.accountView.UpgradeCmd()

	case accountview.CheckoutOpenedMsg:
		if msg.Err != nil {
			m.status = "checkout: " + msg.Err.Error()
		} else {
			m.status = "checkout opened in browser"
		}
		var cmd tea.Cmd
		m.accountView, cmd = m.accountView.Update(msg)
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.out.OutputPath
			if msg.out.Warning != "" {
				m.status += " (" + msg.out.Warning + ")"
			}
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Yield to the sub-view while the user is typing or filtering.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabPractice:
		m.practiceView, tabCmd = m.practiceView.Update(msg)
	case tabDashboard:
		m.dashboardView, tabCmd = m.dashboardView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabAccount:
		m.accountView, tabCmd = m.accountView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.View()
	case tabDashboard:
		return m.dashboardView.View()
	case tabHistory:
		return m.historyView.View()
	case tabAccount:
		return m.accountView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "pmprep  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "practice:start":
		category := ""
		if len(parts) >= 2 {
			category = parts[1]
		}
		m.activeTab = tabPractice
		return m, m.interviewCmd(func(ctx context.Context) (interviewin.Update, error) {
			return m.interview.Start(ctx, category)
		})

	case "practice:next":
		m.activeTab = tabPractice
		return m, m.interviewCmd(m.interview.Next)

	case "practice:end":
		m.activeTab = tabPractice
		return m, m.interviewCmd(m.interview.End)

	case "practice:model-answer":
		m.activeTab = tabPractice
		return m, m.interviewCmd(m.interview.ViewModelAnswer)

	case "auth:login", "auth:register":
		if len(parts) < 3 {
			m.status = "usage: " + parts[0] + " <email> <password>"
			return m, nil
		}
		m.activeTab = tabAccount
		register := parts[0] == "auth:register"
		return m, func() tea.Msg {
			var out authdto.AccountOutput
			var err error
			if register {
				out, err = m.auth.Register(context.Background(), parts[1], parts[2])
			} else {
				out, err = m.auth.Login(context.Background(), parts[1], parts[2])
			}
			return accountview.AuthResultMsg{Account: out, Err: err}
		}

	case "auth:google":
		m.activeTab = tabAccount
		return m, func() tea.Msg {
			url, err := m.auth.GoogleURL(context.Background())
			return accountview.GoogleURLMsg{URL: url, Err: err}
		}

	case "auth:logout":
		m.activeTab = tabAccount
		return m, func() tea.Msg {
			return accountview.AuthResultMsg{SignedOut: true, Err: m.auth.Logout(context.Background())}
		}

	case "billing:upgrade":
		m.activeTab = tabAccount
		return m, m.accountView.UpgradeCmd()

	case "billing:cancel":
		m.activeTab = tabAccount
		return m, func() tea.Msg {
			return accountview.CancelDoneMsg{Err: m.billing.Cancel(context.Background())}
		}

	case "export":
		if len(parts) < 3 {
			m.status = "usage: export <exporter> <format> [dir]"
			return m, nil
		}
		dir := "."
		if len(parts) >= 4 {
			dir = parts[3]
		}
		m.status = "exporting…"
		return m, func() tea.Msg {
			out, err := m.exporter.Export(context.Background(), parts[1], parts[2], dir)
			return exportDoneMsg{out: out, err: err}
		}

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.Typing()
	case tabHistory:
		return m.historyView.Filtering()
	case tabAccount:
		return m.accountView.Typing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.practiceView, _ = m.practiceView.Update(sz)
	m.dashboardView, _ = m.dashboardView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.accountView, _ = m.accountView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitForUpdateCmd() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		return backgroundUpdateMsg{update: update, ok: ok}
	}
}

func (m Model) interviewCmd(call func(ctx context.Context) (interviewin.Update, error)) tea.Cmd {
	return func() tea.Msg {
		update, err := call(context.Background())
		return practiceview.UpdateMsg{Update: update, Err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type historyBridge struct{ p historyPort }

func (b historyBridge) List(ctx context.Context) ([]historydto.SessionOutput, error) {
	return b.p.List(ctx)
}
func (b historyBridge) Detail(ctx context.Context, id string) (historydto.SessionDetailOutput, error) {
	return b.p.Detail(ctx, id)
}
func (b historyBridge) Dashboard(ctx context.Context) (historydto.DashboardOutput, error) {
	return b.p.Dashboard(ctx)
}

type authBridge struct{ p authPort }

func (b authBridge) Login(ctx context.Context, email, password string) (authdto.AccountOutput, error) {
	return b.p.Login(ctx, email, password)
}
func (b authBridge) Register(ctx context.Context, email, password string) (authdto.AccountOutput, error) {
	return b.p.Register(ctx, email, password)
}
func (b authBridge) GoogleURL(ctx context.Context) (string, error) {
	return b.p.GoogleURL(ctx)
}
func (b authBridge) Logout(ctx context.Context) error {
	return b.p.Logout(ctx)
}
func (b authBridge) Whoami(ctx context.Context) authdto.AccountOutput {
	return b.p.Whoami(ctx)
}

type usageBridge struct{ p usagePort }

func (b usageBridge) Status(ctx context.Context) (usagedto.StatusOutput, error) {
	return b.p.Status(ctx)
}

type billingBridge struct{ p billingPort }

func (b billingBridge) Upgrade(ctx context.Context) (string, error) {
	return b.p.Upgrade(ctx)
}
func (b billingBridge) Cancel(ctx context.Context) error {
	return b.p.Cancel(ctx)
}
func (b billingBridge) Status(ctx context.Context) (billingdto.SubscriptionOutput, error) {
	return b.p.Status(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
