package account

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "pmprep/internal/modules/auth/dto"
	billingdto "pmprep/internal/modules/billing/dto"
	usagedto "pmprep/internal/modules/usage/dto"
	"pmprep/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type AuthPort interface {
	Login(ctx context.Context, email, password string) (authdto.AccountOutput, error)
	Register(ctx context.Context, email, password string) (authdto.AccountOutput, error)
	GoogleURL(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) authdto.AccountOutput
}

type UsagePort interface {
	Status(ctx context.Context) (usagedto.StatusOutput, error)
}

type BillingPort interface {
	Upgrade(ctx context.Context) (string, error)
	Cancel(ctx context.Context) error
	Status(ctx context.Context) (billingdto.SubscriptionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type UsageLoadedMsg struct {
	Status usagedto.StatusOutput
	Err    error
}

type SubscriptionLoadedMsg struct {
	Sub billingdto.SubscriptionOutput
	Err error
}

// AuthResultMsg reports the outcome of a sign-in, registration, or sign-out,
// whether it came from the form here or from the command palette.
type AuthResultMsg struct {
	Account   authdto.AccountOutput
	SignedOut bool
	Err       error
}

// GoogleURLMsg carries the browser sign-in URL.
type GoogleURLMsg struct {
	URL string
	Err error
}

// CheckoutOpenedMsg is exported so the app level can surface the URL in the
// status bar too.
type CheckoutOpenedMsg struct {
	URL string
	Err error
}

// CancelDoneMsg reports a subscription cancellation attempt.
type CancelDoneMsg struct{ Err error }

// ─── form modes ──────────────────────────────────────────────────────────────

type formMode int

const (
	formNone formMode = iota
	formLogin
	formRegister
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	auth    AuthPort
	usage   UsagePort
	billing BillingPort

	account   authdto.AccountOutput
	status    usagedto.StatusOutput
	hasStatus bool
	sub       billingdto.SubscriptionOutput
	hasSub    bool

	mode     formMode
	email    textinput.Model
	password textinput.Model
	focusPwd bool

	notice string
	width  int
	height int
}

func New(auth AuthPort, usage UsagePort, billing BillingPort) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return Model{
		auth:     auth,
		usage:    usage,
		billing:  billing,
		account:  auth.Whoami(context.Background()),
		email:    email,
		password: password,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadUsageCmd(), m.loadSubscriptionCmd())
}

// Typing reports whether a form input has focus.
func (m Model) Typing() bool { return m.mode != formNone }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case UsageLoadedMsg:
		if msg.Err != nil {
			m.notice = "usage: " + msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status
		m.hasStatus = true
		return m, nil

	case SubscriptionLoadedMsg:
		if msg.Err == nil {
			m.sub = msg.Sub
			m.hasSub = true
		}
		return m, nil

	case AuthResultMsg:
		if msg.Err != nil {
			m.notice = msg.Err.Error()
			return m, nil
		}
		if msg.SignedOut {
			m.account = authdto.AccountOutput{}
			m.hasSub = false
			m.notice = "signed out"
			return m, m.loadUsageCmd()
		}
		m.account = msg.Account
		m.mode = formNone
		m.notice = "signed in as " + msg.Account.Email
		return m, tea.Batch(m.loadUsageCmd(), m.loadSubscriptionCmd())

	case GoogleURLMsg:
		if msg.Err != nil {
			m.notice = "google sign-in: " + msg.Err.Error()
		} else {
			m.notice = "open in your browser: " + msg.URL
		}
		return m, nil

	case CheckoutOpenedMsg:
		if msg.Err != nil {
			m.notice = "checkout: " + msg.Err.Error()
		} else {
			m.notice = "checkout opened: " + msg.URL
		}
		return m, nil

	case CancelDoneMsg:
		if msg.Err != nil {
			m.notice = "cancel: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "subscription cancelled"
		return m, tea.Batch(m.loadUsageCmd(), m.loadSubscriptionCmd())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode != formNone {
		switch msg.String() {
		case "esc":
			m.mode = formNone
			m.email.Blur()
			m.password.Blur()
			return m, nil
		case "tab", "shift+tab":
			m.focusPwd = !m.focusPwd
			if m.focusPwd {
				m.email.Blur()
				return m, m.password.Focus()
			}
			m.password.Blur()
			return m, m.email.Focus()
		case "enter":
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			register := m.mode == formRegister
			return m, func() tea.Msg {
				var out authdto.AccountOutput
				var err error
				if register {
					out, err = m.auth.Register(context.Background(), email, password)
				} else {
					out, err = m.auth.Login(context.Background(), email, password)
				}
				return AuthResultMsg{Account: out, Err: err}
			}
		}
		var cmd tea.Cmd
		if m.focusPwd {
			m.password, cmd = m.password.Update(msg)
		} else {
			m.email, cmd = m.email.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "l":
		if !m.account.LoggedIn {
			return m.openForm(formLogin)
		}
	case "r":
		if !m.account.LoggedIn {
			return m.openForm(formRegister)
		}
	case "g":
		if !m.account.LoggedIn {
			return m, func() tea.Msg {
				url, err := m.auth.GoogleURL(context.Background())
				return GoogleURLMsg{URL: url, Err: err}
			}
		}
	case "o":
		if m.account.LoggedIn {
			return m, func() tea.Msg {
				return AuthResultMsg{SignedOut: true, Err: m.auth.Logout(context.Background())}
			}
		}
	case "u":
		return m, m.UpgradeCmd()
	case "c":
		if m.hasSub && m.sub.Active {
			return m, func() tea.Msg {
				return CancelDoneMsg{Err: m.billing.Cancel(context.Background())}
			}
		}
	}
	return m, nil
}

func (m Model) openForm(mode formMode) (Model, tea.Cmd) {
	m.mode = mode
	m.focusPwd = false
	m.email.SetValue("")
	m.password.SetValue("")
	m.notice = ""
	return m, m.email.Focus()
}

// UpgradeCmd opens the checkout in the browser. The app level also invokes
// this when the practice view's upgrade modal is confirmed.
func (m Model) UpgradeCmd() tea.Cmd {
	return func() tea.Msg {
		url, err := m.billing.Upgrade(context.Background())
		return CheckoutOpenedMsg{URL: url, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Account") + "\n\n")

	if m.account.LoggedIn {
		sb.WriteString(theme.Good.Render("● ") + m.account.Email + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("Not signed in. Progress stays on this device.") + "\n")
	}

	if m.hasStatus {
		s := m.status
		sb.WriteString("\n" + theme.Title.Render("Plan") + "\n")
		sb.WriteString(theme.Muted.Render("plan:      ") + s.Plan)
		if s.Degraded {
			sb.WriteString(theme.Warn.Render("  (offline)"))
		}
		sb.WriteString("\n")
		if s.QuestionsLimit > 0 {
			sb.WriteString(theme.Muted.Render("questions: ") +
				fmt.Sprintf("%d of %d left\n", s.QuestionsRemaining, s.QuestionsLimit))
		} else {
			sb.WriteString(theme.Muted.Render("questions: ") + "unlimited\n")
		}
		if s.TrialHoursRemaining > 0 {
			sb.WriteString(theme.Muted.Render("trial:     ") +
				fmt.Sprintf("%.0f hours left\n", s.TrialHoursRemaining))
		}
		if locked := lockedFeatures(s.Locked); len(locked) > 0 {
			sb.WriteString(theme.Muted.Render("locked:    ") + strings.Join(locked, ", ") + "\n")
		}
	}

	if m.hasSub && m.sub.Active {
		sb.WriteString("\n" + theme.Title.Render("Subscription") + "\n")
		sb.WriteString(theme.Muted.Render("plan:      ") + m.sub.Plan + "\n")
		if m.sub.CancelsAt != "" {
			sb.WriteString(theme.Muted.Render("ends:      ") + m.sub.CancelsAt + "\n")
		} else if m.sub.RenewsAt != "" {
			sb.WriteString(theme.Muted.Render("renews:    ") + m.sub.RenewsAt + "\n")
		}
	}

	if m.mode != formNone {
		label := "Sign in"
		if m.mode == formRegister {
			label = "Create account"
		}
		sb.WriteString("\n" + theme.Title.Render(label) + "\n")
		sb.WriteString("  " + m.email.View() + "\n")
		sb.WriteString("  " + m.password.View() + "\n")
		sb.WriteString(theme.Muted.Render("  enter: submit  tab: switch field  esc: cancel") + "\n")
	} else {
		sb.WriteString("\n" + theme.Muted.Render(m.keyHints()) + "\n")
	}

	if m.notice != "" {
		sb.WriteString("\n" + theme.Warn.Render(m.notice) + "\n")
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}

func (m Model) keyHints() string {
	if m.account.LoggedIn {
		if m.hasSub && m.sub.Active {
			return "o: sign out  c: cancel subscription"
		}
		return "o: sign out  u: upgrade"
	}
	return "l: sign in  r: register  g: google  u: upgrade"
}

func lockedFeatures(locked map[string]bool) []string {
	var out []string
	for feature, isLocked := range locked {
		if isLocked {
			out = append(out, feature)
		}
	}
	sort.Strings(out)
	return out
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadUsageCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.usage.Status(context.Background())
		return UsageLoadedMsg{Status: status, Err: err}
	}
}

func (m Model) loadSubscriptionCmd() tea.Cmd {
	return func() tea.Msg {
		sub, err := m.billing.Status(context.Background())
		return SubscriptionLoadedMsg{Sub: sub, Err: err}
	}
}
