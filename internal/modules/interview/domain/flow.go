package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Phase is the single tag describing where a practice session is. Every
// transition goes through Flow.Apply; there are no side flags that could
// disagree with it.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseStarting           Phase = "starting"
	PhaseQuestionLoaded     Phase = "question_loaded"
	PhaseAnswerSubmitted    Phase = "answer_submitted"
	PhaseScoringSummary     Phase = "scoring_summary"
	PhaseScored             Phase = "scored"
	PhaseViewingModelAnswer Phase = "viewing_model_answer"
	PhaseEnded              Phase = "ended"
)

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrStaleEvent        = errors.New("event is for a previous question")
	ErrClarifyInFlight   = errors.New("a clarification request is already in flight")
	ErrAnswerTooShort    = errors.New("answer is too short")
)

// MinAnswerRunes is the local validation floor for a submitted answer,
// measured on the trimmed text.
const MinAnswerRunes = 10

// ValidateAnswer rejects answers below the minimum length without any
// network involvement.
func ValidateAnswer(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinAnswerRunes {
		return ErrAnswerTooShort
	}
	return nil
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one clarification exchange message.
type Turn struct {
	Role Role
	Text string
}

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// Question is the prompt the server handed out for one attempt.
type Question struct {
	ID        int
	Prompt    string
	Category  string
	Companies []string
}

// Attempt is the mutable record of one question within a session, keyed by
// the question id. A resubmitted answer overwrites AnswerID in place.
type Attempt struct {
	Question
	AnswerID       string
	AnswerText     string
	Conversation   []Turn
	Status         AttemptStatus
	Summary        *Score
	Detail         *Score
	ModelAnswer    string
	ElapsedSeconds int
}

// DisplayScore prefers detailed feedback once it has arrived; the dimension
// numbers always come from the summarized score, which landed first and is
// what the user was shown.
func (a *Attempt) DisplayScore() *Score {
	if a.Summary == nil {
		return a.Detail
	}
	if a.Detail == nil {
		return a.Summary
	}
	merged := *a.Summary
	if a.Detail.Feedback != "" {
		merged.Feedback = a.Detail.Feedback
	}
	if a.Detail.SampleAnswer != "" {
		merged.SampleAnswer = a.Detail.SampleAnswer
	}
	return &merged
}

// Session is one practice run from start to end.
type Session struct {
	PracticeSessionID string
	StartedAt         time.Time
	EndedAt           time.Time
	History           []Attempt
}

// Flow is the session state machine. It is a plain value mutated only through
// Apply; callers serialize access.
type Flow struct {
	Phase           Phase
	Session         Session
	Current         *Attempt
	ClarifyInFlight bool
}

func NewFlow() *Flow {
	return &Flow{Phase: PhaseIdle}
}

// Event is a state machine input. Events that carry a QuestionID are guarded
// against staleness: if the id no longer matches the current attempt the
// event is rejected with ErrStaleEvent and the flow is untouched.
type Event interface {
	event()
}

type StartRequested struct {
	Category string
	At       time.Time
}

type QuestionLoaded struct {
	Question          Question
	PracticeSessionID string
}

type StartFailed struct{}

type ClarifyBegan struct {
	QuestionID int
	UserText   string
}

type ClarifyResolved struct {
	QuestionID    int
	AssistantText string
}

type ClarifyFailed struct {
	QuestionID int
}

type SubmitBegan struct {
	QuestionID     int
	AnswerText     string
	ElapsedSeconds int
}

type AnswerAccepted struct {
	QuestionID int
	AnswerID   string
}

type SubmitFailed struct {
	QuestionID int
}

type SummaryScored struct {
	QuestionID int
	Score      Score
}

type SummaryFailed struct {
	QuestionID int
}

type DetailScored struct {
	QuestionID int
	Score      Score
}

type ModelAnswerLoaded struct {
	QuestionID int
	Text       string
}

type ModelAnswerOpened struct{}

type ModelAnswerClosed struct{}

type NextRequested struct{}

type SessionEnded struct {
	At time.Time
}

func (StartRequested) event()    {}
func (QuestionLoaded) event()    {}
func (StartFailed) event()       {}
func (ClarifyBegan) event()      {}
func (ClarifyResolved) event()   {}
func (ClarifyFailed) event()     {}
func (SubmitBegan) event()       {}
func (AnswerAccepted) event()    {}
func (SubmitFailed) event()      {}
func (SummaryScored) event()     {}
func (SummaryFailed) event()     {}
func (DetailScored) event()      {}
func (ModelAnswerLoaded) event() {}
func (ModelAnswerOpened) event() {}
func (ModelAnswerClosed) event() {}
func (NextRequested) event()     {}
func (SessionEnded) event()      {}

// Apply advances the flow by one event or rejects it, leaving the flow
// unchanged on any error.
func (f *Flow) Apply(ev Event) error {
	switch e := ev.(type) {
	case StartRequested:
		if f.Phase != PhaseIdle {
			return f.invalid(ev)
		}
		f.Session = Session{StartedAt: e.At}
		f.Phase = PhaseStarting

	case QuestionLoaded:
		if f.Phase != PhaseStarting {
			return f.invalid(ev)
		}
		if e.PracticeSessionID != "" {
			f.Session.PracticeSessionID = e.PracticeSessionID
		}
		f.Current = &Attempt{Question: e.Question, Status: AttemptInProgress}
		f.ClarifyInFlight = false
		f.Phase = PhaseQuestionLoaded

	case StartFailed:
		if f.Phase != PhaseStarting {
			return f.invalid(ev)
		}
		if n := len(f.Session.History); n > 0 {
			// A failed next-question load must not strand the open
			// session in idle, where it could neither be ended nor
			// retried. Restore the last scored attempt instead.
			last := f.Session.History[n-1]
			f.Session.History = f.Session.History[:n-1]
			f.Current = &last
			f.Phase = PhaseScored
		} else {
			f.Phase = PhaseIdle
		}

	case ClarifyBegan:
		if f.Phase != PhaseQuestionLoaded {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		if f.ClarifyInFlight {
			return ErrClarifyInFlight
		}
		f.Current.Conversation = append(f.Current.Conversation, Turn{Role: RoleUser, Text: e.UserText})
		f.ClarifyInFlight = true

	case ClarifyResolved:
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		if !f.ClarifyInFlight {
			return f.invalid(ev)
		}
		f.Current.Conversation = append(f.Current.Conversation, Turn{Role: RoleAssistant, Text: e.AssistantText})
		f.ClarifyInFlight = false

	case ClarifyFailed:
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		if !f.ClarifyInFlight {
			return f.invalid(ev)
		}
		f.ClarifyInFlight = false

	case SubmitBegan:
		if f.Phase != PhaseQuestionLoaded {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		if err := ValidateAnswer(e.AnswerText); err != nil {
			return err
		}
		f.Current.AnswerText = e.AnswerText
		f.Current.ElapsedSeconds = e.ElapsedSeconds
		f.Phase = PhaseAnswerSubmitted

	case AnswerAccepted:
		if f.Phase != PhaseAnswerSubmitted {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		f.Current.AnswerID = e.AnswerID
		f.Phase = PhaseScoringSummary

	case SubmitFailed:
		if f.Phase != PhaseAnswerSubmitted {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		f.Phase = PhaseQuestionLoaded

	case SummaryScored:
		if f.Phase != PhaseScoringSummary {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		score := e.Score
		f.Current.Summary = &score
		f.Current.Status = AttemptCompleted
		f.Phase = PhaseScored

	case SummaryFailed:
		if f.Phase != PhaseScoringSummary {
			return f.invalid(ev)
		}
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		f.Phase = PhaseQuestionLoaded

	case DetailScored:
		// The detailed score may land before or after the summary; it merges
		// into the attempt without moving the phase.
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		score := e.Score
		f.Current.Detail = &score

	case ModelAnswerLoaded:
		if err := f.guard(e.QuestionID); err != nil {
			return err
		}
		f.Current.ModelAnswer = e.Text

	case ModelAnswerOpened:
		if f.Phase != PhaseScored {
			return f.invalid(ev)
		}
		f.Phase = PhaseViewingModelAnswer

	case ModelAnswerClosed:
		if f.Phase != PhaseViewingModelAnswer {
			return f.invalid(ev)
		}
		f.Phase = PhaseScored

	case NextRequested:
		if f.Phase != PhaseScored && f.Phase != PhaseViewingModelAnswer {
			return f.invalid(ev)
		}
		f.Session.History = append(f.Session.History, *f.Current)
		f.Current = nil
		f.ClarifyInFlight = false
		f.Phase = PhaseStarting

	case SessionEnded:
		if f.Phase == PhaseIdle || f.Phase == PhaseEnded {
			return f.invalid(ev)
		}
		if f.Current != nil && f.Current.Status == AttemptCompleted {
			f.Session.History = append(f.Session.History, *f.Current)
		}
		f.Current = nil
		f.ClarifyInFlight = false
		f.Session.EndedAt = e.At
		f.Phase = PhaseEnded

	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	return nil
}

func (f *Flow) guard(questionID int) error {
	if f.Current == nil || f.Current.ID != questionID {
		return ErrStaleEvent
	}
	return nil
}

func (f *Flow) invalid(ev Event) error {
	return fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, ev, f.Phase)
}
