package practice

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	interviewdto "pmprep/internal/modules/interview/dto"
	interviewin "pmprep/internal/modules/interview/port/in"
	"pmprep/internal/ui/components"
	"pmprep/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type InterviewPort interface {
	Start(ctx context.Context, category string) (interviewin.Update, error)
	Clarify(ctx context.Context, text string) (interviewin.Update, error)
	Submit(ctx context.Context, text string, elapsedSeconds int) (interviewin.Update, error)
	Next(ctx context.Context) (interviewin.Update, error)
	ViewModelAnswer(ctx context.Context) (interviewin.Update, error)
	CloseModelAnswer(ctx context.Context) (interviewin.Update, error)
	End(ctx context.Context) (interviewin.Update, error)
	Categories(ctx context.Context) ([]interviewdto.Category, error)
}

type VoicePort interface {
	StartRecording(ctx context.Context) error
	StopAndTranscribe(ctx context.Context) (string, error)
	Speak(ctx context.Context, text string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// UpdateMsg carries a session update, either as the direct result of a user
// action or pushed from the background stream.
type UpdateMsg struct {
	Update interviewin.Update
	Err    error
}

// UpgradeRequestedMsg asks the app level to open the checkout flow.
type UpgradeRequestedMsg struct{}

type CategoriesLoadedMsg struct {
	Categories []interviewdto.Category
	Err        error
}

type recordingStartedMsg struct{ err error }

type transcriptMsg struct {
	text string
	err  error
}

type spokenMsg struct{ err error }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port  InterviewPort
	voice VoicePort

	state      interviewdto.State
	upgrade    string // upgrade modal reason, "" when hidden
	summary    *interviewdto.SessionSummary
	categories []interviewdto.Category
	catCursor  int

	answer    textarea.Model
	convo     viewport.Model
	spinner   spinner.Model
	watch     stopwatch.Model
	recording bool
	busy      bool
	status    string
	width     int
	height    int
}

func New(interview InterviewPort, voice VoicePort) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer (ctrl+s submit, ctrl+d clarify, ctrl+r record)…"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    interview,
		voice:   voice,
		answer:  ta,
		convo:   vp,
		spinner: sp,
		watch:   stopwatch.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCategoriesCmd(), m.spinner.Tick)
}

// Typing reports whether the answer box has focus, in which case global key
// bindings must yield so the user can type freely.
func (m Model) Typing() bool { return m.answer.Focused() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case CategoriesLoadedMsg:
		if msg.Err != nil {
			m.status = "categories: " + msg.Err.Error()
			return m, nil
		}
		m.categories = msg.Categories

	case UpdateMsg:
		return m.applyUpdate(msg)

	case recordingStartedMsg:
		if msg.err != nil {
			m.recording = false
			m.status = "recording: " + msg.err.Error()
		} else {
			m.status = "recording… press ctrl+r to stop"
		}

	case transcriptMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "transcription: " + msg.err.Error()
			return m, nil
		}
		existing := m.answer.Value()
		if existing != "" && !strings.HasSuffix(existing, " ") {
			existing += " "
		}
		m.answer.SetValue(existing + msg.text)
		m.status = "transcript inserted"

	case spokenMsg:
		if msg.err != nil {
			m.status = "playback: " + msg.err.Error()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case stopwatch.TickMsg, stopwatch.StartStopMsg, stopwatch.ResetMsg:
		var cmd tea.Cmd
		m.watch, cmd = m.watch.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.answer.Focused() {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		cmds = append(cmds, cmd)
	}
	var vCmd tea.Cmd
	m.convo, vCmd = m.convo.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The upgrade modal intercepts everything while open.
	if m.upgrade != "" {
		switch msg.String() {
		case "u":
			m.upgrade = ""
			return m, func() tea.Msg { return UpgradeRequestedMsg{} }
		case "esc", "q":
			m.upgrade = ""
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch m.state.Phase {
	case "", "idle", "ended":
		switch msg.String() {
		case "up", "k":
			if m.catCursor > 0 {
				m.catCursor--
			}
		case "down", "j":
			if m.catCursor < len(m.categories) {
				m.catCursor++
			}
		case "enter", "s":
			m.busy = true
			m.summary = nil
			m.status = "starting…"
			return m, m.callCmd(func(ctx context.Context) (interviewin.Update, error) {
				return m.port.Start(ctx, m.selectedCategory())
			})
		}
		return m, nil

	case "question_loaded":
		switch msg.String() {
		case "ctrl+s":
			text := strings.TrimSpace(m.answer.Value())
			elapsed := int(m.watch.Elapsed().Seconds())
			m.busy = true
			m.status = "scoring…"
			return m, m.callCmd(func(ctx context.Context) (interviewin.Update, error) {
				return m.port.Submit(ctx, text, elapsed)
			})
		case "ctrl+d":
			text := strings.TrimSpace(m.answer.Value())
			if text == "" {
				m.status = "type the clarifying question first"
				return m, nil
			}
			m.answer.SetValue("")
			m.busy = true
			m.status = "asking…"
			return m, m.callCmd(func(ctx context.Context) (interviewin.Update, error) {
				return m.port.Clarify(ctx, text)
			})
		case "ctrl+r":
			return m.toggleRecording()
		case "ctrl+p":
			return m, m.speakQuestionCmd()
		}

	case "scored":
		switch msg.String() {
		case "n":
			m.busy = true
			m.status = "loading next question…"
			return m, m.callCmd(m.port.Next)
		case "m":
			return m, m.callCmd(m.port.ViewModelAnswer)
		case "e":
			m.busy = true
			m.status = "ending session…"
			return m, m.callCmd(m.port.End)
		}
		return m, nil

	case "viewing_model_answer":
		switch msg.String() {
		case "m", "esc":
			return m, m.callCmd(m.port.CloseModelAnswer)
		}
		return m, nil
	}

	if m.answer.Focused() {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyUpdate(msg UpdateMsg) (Model, tea.Cmd) {
	m.busy = false
	if msg.Err != nil {
		m.status = msg.Err.Error()
	}

	prev := m.state.Phase
	m.state = msg.Update.State
	if msg.Update.Prompt != nil {
		m.upgrade = msg.Update.Prompt.Reason
	}
	if msg.Update.Summary != nil {
		m.summary = msg.Update.Summary
	}
	if m.state.Banner != "" {
		m.status = m.state.Banner
	} else if msg.Err == nil {
		m.status = ""
	}

	var cmds []tea.Cmd
	switch m.state.Phase {
	case "question_loaded":
		m.convo.SetContent(m.renderConversation())
		m.convo.GotoBottom()
		if prev != "question_loaded" {
			m.answer.SetValue("")
			cmds = append(cmds, m.answer.Focus(), m.watch.Reset(), m.watch.Start())
		}
	case "scored", "viewing_model_answer":
		m.answer.Blur()
		if prev != "scored" && prev != "viewing_model_answer" {
			cmds = append(cmds, m.watch.Stop())
		}
	case "idle", "ended":
		m.answer.Blur()
		m.answer.SetValue("")
		cmds = append(cmds, m.watch.Stop())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) toggleRecording() (Model, tea.Cmd) {
	if m.recording {
		m.recording = false
		m.busy = true
		m.status = "transcribing…"
		return m, func() tea.Msg {
			text, err := m.voice.StopAndTranscribe(context.Background())
			return transcriptMsg{text: text, err: err}
		}
	}
	m.recording = true
	return m, func() tea.Msg {
		err := m.voice.StartRecording(context.Background())
		return recordingStartedMsg{err: err}
	}
}

func (m Model) speakQuestionCmd() tea.Cmd {
	if m.state.Current == nil {
		return nil
	}
	prompt := m.state.Current.Prompt
	return func() tea.Msg {
		return spokenMsg{err: m.voice.Speak(context.Background(), prompt)}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.upgrade != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.renderUpgradeModal())
	}

	switch m.state.Phase {
	case "", "idle", "ended":
		return m.renderStartScreen()
	case "starting":
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading question…")
	case "viewing_model_answer":
		return m.renderModelAnswer()
	case "scored", "scoring_summary", "answer_submitted":
		return m.renderScoreScreen()
	default:
		return m.renderQuestionScreen()
	}
}

func (m Model) renderStartScreen() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Practice Interview") + "\n\n")

	if m.summary != nil {
		s := m.summary
		sb.WriteString(theme.Good.Render("Session complete") + "\n")
		sb.WriteString(fmt.Sprintf("  questions: %d\n", s.QuestionsCount))
		sb.WriteString(fmt.Sprintf("  duration:  %dm %ds\n", s.DurationSeconds/60, s.DurationSeconds%60))
		sb.WriteString(fmt.Sprintf("  average:   %.1f\n", s.OverallScore))
		for cat, score := range s.ByCategory {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  %-14s %.1f\n", cat, score)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Pick a category:\n\n")
	line := func(i int, label string) {
		cursor := "  "
		style := theme.Muted
		if i == m.catCursor {
			cursor = theme.Hot.Render("> ")
			style = theme.Hot
		}
		sb.WriteString(cursor + style.Render(label) + "\n")
	}
	line(0, "Mixed")
	for i, c := range m.categories {
		line(i+1, c.Label)
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: start  ↑/↓: choose"))
	if m.status != "" {
		sb.WriteString("\n\n" + theme.Warn.Render(m.status))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}

func (m Model) renderQuestionScreen() string {
	header := m.renderHeader()
	answerH := m.height * 4 / 10
	if answerH < 5 {
		answerH = 5
	}
	convoH := m.height - lipgloss.Height(header) - answerH - 1
	if convoH < 3 {
		convoH = 3
	}

	m.convo.Width = m.width - 2
	m.convo.Height = convoH
	m.answer.SetWidth(m.width - 4)
	m.answer.SetHeight(answerH - 2)

	answerPane := theme.PaneActive.Width(m.width - 2).Render(m.answer.View())
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, m.convo.View(), answerPane, footer)
}

func (m Model) renderScoreScreen() string {
	cur := m.state.Current
	if cur == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Feedback") + "\n\n")

	if cur.Score == nil {
		sb.WriteString(m.spinner.View() + " Scoring your answer…\n")
	} else {
		s := cur.Score
		sb.WriteString(components.ScoreBar("structure", s.Structure) + "\n")
		sb.WriteString(components.ScoreBar("metrics", s.Metrics) + "\n")
		sb.WriteString(components.ScoreBar("prioritization", s.Prioritization) + "\n")
		sb.WriteString(components.ScoreBar("user empathy", s.UserEmpathy) + "\n")
		sb.WriteString(components.ScoreBar("communication", s.Communication) + "\n\n")
		sb.WriteString(theme.Muted.Render("overall ") +
			theme.ScoreStyle(s.Overall).Render(fmt.Sprintf("%d / 10", s.Overall)) + "\n\n")
		if s.Feedback != "" {
			sb.WriteString(wrap(s.Feedback, m.width-8) + "\n")
		}
	}

	keys := "n: next question  e: end session"
	if cur.ModelAnswer != "" {
		keys = "n: next question  m: model answer  e: end session"
	}
	sb.WriteString("\n" + theme.Muted.Render(keys))
	if m.status != "" {
		sb.WriteString("\n" + theme.Warn.Render(m.status))
	}

	return theme.Pane.Width(m.width - 2).Render(sb.String())
}

func (m Model) renderModelAnswer() string {
	cur := m.state.Current
	if cur == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Model Answer") + "\n\n")
	if cur.ModelAnswer == "" {
		sb.WriteString(m.spinner.View() + " Fetching…\n")
	} else {
		sb.WriteString(wrap(cur.ModelAnswer, m.width-8) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("m/esc: back to feedback"))
	return theme.Pane.Width(m.width - 2).Render(sb.String())
}

func (m Model) renderUpgradeModal() string {
	var sb strings.Builder
	sb.WriteString(theme.Hot.Render("Upgrade required") + "\n\n")
	switch m.upgrade {
	case "limit_reached":
		sb.WriteString("You have used all your free questions.\n")
	case "trial_expired":
		sb.WriteString("Your trial has expired.\n")
	default:
		sb.WriteString("This feature needs a Pro plan.\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("u: upgrade  esc: dismiss"))
	return theme.PaneActive.Render(sb.String())
}

func (m Model) renderHeader() string {
	cur := m.state.Current
	if cur == nil {
		return ""
	}
	elapsed := m.watch.Elapsed()
	timer := fmt.Sprintf("%02d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
	rec := ""
	if m.recording {
		rec = "  " + theme.Bad.Render("● REC")
	}
	left := theme.Title.Render(cur.Category)
	right := theme.Muted.Render(timer) + rec
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter() string {
	hint := "ctrl+s: submit  ctrl+d: clarify  ctrl+r: record  ctrl+p: hear question"
	if m.busy {
		hint = m.spinner.View() + " " + m.status
	} else if m.status != "" {
		hint = m.status + "  " + hint
	}
	return " " + theme.Muted.Render(hint)
}

func (m Model) renderConversation() string {
	cur := m.state.Current
	if cur == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Hot.Render("Interviewer: ") + wrap(cur.Prompt, m.width-8) + "\n")
	for _, t := range cur.Conversation {
		sb.WriteString("\n")
		if t.Role == "user" {
			sb.WriteString(theme.Title.Render("You: ") + wrap(t.Text, m.width-8) + "\n")
		} else {
			sb.WriteString(theme.Hot.Render("Interviewer: ") + wrap(t.Text, m.width-8) + "\n")
		}
	}
	return sb.String()
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) selectedCategory() string {
	if m.catCursor == 0 || m.catCursor > len(m.categories) {
		return ""
	}
	return m.categories[m.catCursor-1].Value
}

func (m *Model) resize() {
	m.convo.Width = m.width - 2
	m.answer.SetWidth(m.width - 4)
}

func (m Model) callCmd(call func(ctx context.Context) (interviewin.Update, error)) tea.Cmd {
	return func() tea.Msg {
		update, err := call(context.Background())
		return UpdateMsg{Update: update, Err: err}
	}
}

func (m Model) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		cats, err := m.port.Categories(context.Background())
		return CategoriesLoadedMsg{Categories: cats, Err: err}
	}
}

func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
