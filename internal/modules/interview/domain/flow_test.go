package domain

import (
	"errors"
	"testing"
	"time"
)

func loadedFlow(t *testing.T, questionID int) *Flow {
	t.Helper()
	f := NewFlow()
	mustApply(t, f, StartRequested{At: time.Unix(1000, 0)})
	mustApply(t, f, QuestionLoaded{Question: Question{ID: questionID, Prompt: "Design a metric."}})
	return f
}

func mustApply(t *testing.T, f *Flow, ev Event) {
	t.Helper()
	if err := f.Apply(ev); err != nil {
		t.Fatalf("Apply(%T): %v", ev, err)
	}
}

func TestFlowHappyPath(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 101)
	mustApply(t, f, SubmitBegan{QuestionID: 101, AnswerText: "This is a sufficiently long test answer for scoring.", ElapsedSeconds: 90})
	mustApply(t, f, AnswerAccepted{QuestionID: 101, AnswerID: "ans-1"})
	if f.Phase != PhaseScoringSummary {
		t.Fatalf("phase = %s, want scoring_summary", f.Phase)
	}

	mustApply(t, f, SummaryScored{QuestionID: 101, Score: Score{
		Dimensions: Dimensions{Structure: 8, Metrics: 7, Prioritization: 9, UserEmpathy: 6, Communication: 8},
		Overall:    8,
	}})
	if f.Phase != PhaseScored {
		t.Fatalf("phase = %s, want scored", f.Phase)
	}
	if f.Current.Status != AttemptCompleted {
		t.Fatalf("status = %s, want completed", f.Current.Status)
	}

	mustApply(t, f, NextRequested{})
	if f.Phase != PhaseStarting {
		t.Fatalf("phase = %s, want starting", f.Phase)
	}
	if len(f.Session.History) != 1 || f.Session.History[0].ID != 101 {
		t.Fatalf("history = %+v, want the completed attempt for question 101", f.Session.History)
	}
	if f.Session.History[0].Summary.Overall != 8 {
		t.Fatalf("archived overall = %d, want 8", f.Session.History[0].Summary.Overall)
	}

	mustApply(t, f, QuestionLoaded{Question: Question{ID: 102, Prompt: "Prioritize a backlog."}})
	if f.Current.ID != 102 {
		t.Fatalf("current question = %d, want 102", f.Current.ID)
	}
}

func TestFlowDiscardsStaleDetailScore(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 5)
	mustApply(t, f, SubmitBegan{QuestionID: 5, AnswerText: "An answer long enough to pass validation."})
	mustApply(t, f, AnswerAccepted{QuestionID: 5, AnswerID: "ans-5"})
	mustApply(t, f, SummaryScored{QuestionID: 5, Score: Score{Overall: 7}})
	mustApply(t, f, NextRequested{})
	mustApply(t, f, QuestionLoaded{Question: Question{ID: 6, Prompt: "Estimate market size."}})

	err := f.Apply(DetailScored{QuestionID: 5, Score: Score{Overall: 2, Feedback: "late detail"}})
	if !errors.Is(err, ErrStaleEvent) {
		t.Fatalf("err = %v, want ErrStaleEvent", err)
	}
	if f.Current.Detail != nil {
		t.Fatal("stale detail score must not touch the current attempt")
	}
	if f.Current.ID != 6 {
		t.Fatalf("current question = %d, want 6", f.Current.ID)
	}
}

func TestFlowRejectsShortAnswerLocally(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	err := f.Apply(SubmitBegan{QuestionID: 1, AnswerText: "  123456789  "})
	if !errors.Is(err, ErrAnswerTooShort) {
		t.Fatalf("err = %v, want ErrAnswerTooShort for 9 trimmed runes", err)
	}
	if f.Phase != PhaseQuestionLoaded {
		t.Fatalf("phase = %s, want question_loaded after rejection", f.Phase)
	}

	if err := f.Apply(SubmitBegan{QuestionID: 1, AnswerText: "1234567890"}); err != nil {
		t.Fatalf("10 trimmed runes must be accepted: %v", err)
	}
}

func TestFlowSingleFlightClarification(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, ClarifyBegan{QuestionID: 1, UserText: "Which market?"})

	err := f.Apply(ClarifyBegan{QuestionID: 1, UserText: "And which year?"})
	if !errors.Is(err, ErrClarifyInFlight) {
		t.Fatalf("err = %v, want ErrClarifyInFlight", err)
	}

	mustApply(t, f, ClarifyResolved{QuestionID: 1, AssistantText: "Assume the US market."})
	if got := len(f.Current.Conversation); got != 2 {
		t.Fatalf("conversation has %d turns, want 2", got)
	}
	if f.Current.Conversation[1].Role != RoleAssistant {
		t.Fatalf("second turn role = %s, want assistant", f.Current.Conversation[1].Role)
	}

	// A new request may start once the previous one resolved.
	mustApply(t, f, ClarifyBegan{QuestionID: 1, UserText: "Timeframe?"})
}

func TestFlowClarifyFailureReleasesTheSlot(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, ClarifyBegan{QuestionID: 1, UserText: "Which market?"})
	mustApply(t, f, ClarifyFailed{QuestionID: 1})
	if f.ClarifyInFlight {
		t.Fatal("failed clarification must release the in-flight slot")
	}
}

func TestFlowResubmitOverwritesAnswerID(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "First answer with enough length."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-old"})
	mustApply(t, f, SummaryFailed{QuestionID: 1})

	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "Second, improved answer with enough length."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-new"})
	if f.Current.AnswerID != "ans-new" {
		t.Fatalf("answer id = %q, want ans-new", f.Current.AnswerID)
	}
}

func TestFlowDetailMayArriveBeforeSummary(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "An answer long enough to pass validation."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-1"})

	mustApply(t, f, DetailScored{QuestionID: 1, Score: Score{Feedback: "detailed notes"}})
	if f.Phase != PhaseScoringSummary {
		t.Fatalf("phase = %s, early detail must not advance the phase", f.Phase)
	}

	mustApply(t, f, SummaryScored{QuestionID: 1, Score: Score{
		Dimensions: Dimensions{Structure: 6, Metrics: 6, Prioritization: 6, UserEmpathy: 6, Communication: 6},
		Overall:    6,
		Feedback:   "summary notes",
	}})
	display := f.Current.DisplayScore()
	if display.Feedback != "detailed notes" {
		t.Fatalf("display feedback = %q, want the detailed text", display.Feedback)
	}
	if display.Overall != 6 {
		t.Fatalf("display overall = %d, dimension numbers must come from the summary", display.Overall)
	}
}

func TestFlowEndFromAnyActivePhase(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SessionEnded{At: time.Unix(2000, 0)})
	if f.Phase != PhaseEnded {
		t.Fatalf("phase = %s, want ended", f.Phase)
	}
	if f.Current != nil {
		t.Fatal("ending clears the current attempt")
	}

	if err := NewFlow().Apply(SessionEnded{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatal("idle flow has no session to end")
	}
}

func TestFlowEndArchivesCompletedAttempt(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "An answer long enough to pass validation."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-1"})
	mustApply(t, f, SummaryScored{QuestionID: 1, Score: Score{Overall: 9}})
	mustApply(t, f, SessionEnded{At: time.Unix(2000, 0)})

	if len(f.Session.History) != 1 || f.Session.History[0].Summary.Overall != 9 {
		t.Fatalf("history = %+v, want the scored attempt archived", f.Session.History)
	}
}

func TestFlowModelAnswerView(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "An answer long enough to pass validation."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-1"})
	mustApply(t, f, SummaryScored{QuestionID: 1, Score: Score{Overall: 7}})
	mustApply(t, f, ModelAnswerLoaded{QuestionID: 1, Text: "A model response."})
	mustApply(t, f, ModelAnswerOpened{})
	if f.Phase != PhaseViewingModelAnswer {
		t.Fatalf("phase = %s, want viewing_model_answer", f.Phase)
	}
	mustApply(t, f, ModelAnswerClosed{})
	if f.Phase != PhaseScored {
		t.Fatalf("phase = %s, want scored", f.Phase)
	}
}

func TestFlowFailedNextLoadRestoresLastAttempt(t *testing.T) {
	t.Parallel()

	f := loadedFlow(t, 1)
	mustApply(t, f, SubmitBegan{QuestionID: 1, AnswerText: "An answer long enough to pass validation."})
	mustApply(t, f, AnswerAccepted{QuestionID: 1, AnswerID: "ans-1"})
	mustApply(t, f, SummaryScored{QuestionID: 1, Score: Score{Overall: 7}})
	mustApply(t, f, NextRequested{})
	mustApply(t, f, StartFailed{})

	if f.Phase != PhaseScored {
		t.Fatalf("phase = %s, want scored", f.Phase)
	}
	if f.Current == nil || f.Current.ID != 1 || f.Current.Summary.Overall != 7 {
		t.Fatalf("current = %+v, want the archived attempt restored", f.Current)
	}
	if len(f.Session.History) != 0 {
		t.Fatalf("history len = %d, want 0 while the attempt is current again", len(f.Session.History))
	}

	// Ending from here archives the attempt exactly once.
	mustApply(t, f, SessionEnded{At: time.Unix(2000, 0)})
	if len(f.Session.History) != 1 {
		t.Fatalf("history len = %d after end, want 1", len(f.Session.History))
	}
}

func TestFlowFirstLoadFailureReturnsToIdle(t *testing.T) {
	t.Parallel()

	f := NewFlow()
	mustApply(t, f, StartRequested{At: time.Unix(1000, 0)})
	mustApply(t, f, StartFailed{})
	if f.Phase != PhaseIdle {
		t.Fatalf("phase = %s, want idle", f.Phase)
	}
}
