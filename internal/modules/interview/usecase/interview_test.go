package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"pmprep/internal/modules/interview/domain"
	"pmprep/internal/modules/interview/dto"
	interviewout "pmprep/internal/modules/interview/port/out"
	usagedto "pmprep/internal/modules/usage/dto"
)

type fakeGateway struct {
	questions   []domain.Question
	starts      int
	submits     int
	answerID    string
	summary     domain.Score
	summaryErr  error
	detail      domain.Score
	detailErr   error
	modelAnswer string
	modelErr    error
	clarifyText string
	closeResult interviewout.CloseResult
	closeErr    error
	closedID    string
}

func (f *fakeGateway) StartInterview(context.Context, string) (interviewout.StartResult, error) {
	if f.starts >= len(f.questions) {
		return interviewout.StartResult{}, errors.New("no more questions")
	}
	q := f.questions[f.starts]
	f.starts++
	return interviewout.StartResult{Question: q}, nil
}

func (f *fakeGateway) Categories(context.Context) ([]interviewout.CategoryResult, error) {
	return []interviewout.CategoryResult{{Value: "metrics", Label: "Metrics"}}, nil
}

func (f *fakeGateway) SubmitAnswer(_ context.Context, in interviewout.SubmitAnswerInput) (string, error) {
	f.submits++
	return f.answerID, nil
}

func (f *fakeGateway) SummarizedScore(context.Context, string) (domain.Score, error) {
	return f.summary, f.summaryErr
}

func (f *fakeGateway) DetailedScore(context.Context, string) (domain.Score, error) {
	return f.detail, f.detailErr
}

func (f *fakeGateway) Clarify(context.Context, int, string, []domain.Turn) (string, error) {
	return f.clarifyText, nil
}

func (f *fakeGateway) ModelAnswer(context.Context, int) (string, error) {
	return f.modelAnswer, f.modelErr
}

func (f *fakeGateway) OpenPracticeSession(context.Context) (string, error) {
	return "ps-1", nil
}

func (f *fakeGateway) ClosePracticeSession(_ context.Context, id string) (interviewout.CloseResult, error) {
	f.closedID = id
	return f.closeResult, f.closeErr
}

type fakeUsage struct {
	status usagedto.StatusOutput
	err    error
	checks int
	tracks int
}

func (f *fakeUsage) Fingerprint(context.Context) string { return "fp-test" }

func (f *fakeUsage) Check(context.Context) (usagedto.StatusOutput, error) {
	f.checks++
	return f.status, f.err
}

func (f *fakeUsage) Track(context.Context) (usagedto.StatusOutput, error) {
	f.tracks++
	return f.status, f.err
}

func (f *fakeUsage) Snapshot(context.Context) (usagedto.StatusOutput, bool) {
	if f.checks == 0 && f.tracks == 0 {
		return usagedto.StatusOutput{}, false
	}
	return f.status, true
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func syncRunner(f func()) { f() }

func freePlan() usagedto.StatusOutput {
	return usagedto.StatusOutput{
		Plan:               "free",
		CanPractice:        true,
		QuestionsRemaining: 2,
		QuestionsLimit:     3,
		Authenticated:      true,
	}
}

func newTestInteractor(gateway *fakeGateway, usage *fakeUsage) *Interactor {
	return NewInteractor(gateway, usage, fixedClock{at: time.Unix(5_000, 0)}, nil, syncRunner)
}

func TestFullSessionRoundTrip(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions: []domain.Question{
			{ID: 101, Prompt: "Improve retention for a music app."},
			{ID: 102, Prompt: "Prioritize a feature backlog."},
		},
		answerID: "ans-101",
		summary: domain.Score{
			Dimensions: domain.Dimensions{Structure: 8, Metrics: 7, Prioritization: 9, UserEmpathy: 6, Communication: 8},
			Overall:    8,
		},
		detail:      domain.Score{Feedback: "detailed feedback"},
		modelAnswer: "A model response.",
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	update, err := interactor.Start(ctx, dto.StartInput{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if update.State.Phase != string(domain.PhaseQuestionLoaded) {
		t.Fatalf("phase = %s, want question_loaded", update.State.Phase)
	}
	if update.State.Current.QuestionID != 101 {
		t.Fatalf("question = %d, want 101", update.State.Current.QuestionID)
	}
	if update.State.PracticeSessionID != "ps-1" {
		t.Fatalf("practice session = %q, want ps-1 for an authenticated user", update.State.PracticeSessionID)
	}

	update, err = interactor.SubmitAnswer(ctx, dto.SubmitInput{
		AnswerText:     "This is a sufficiently long test answer for scoring.",
		ElapsedSeconds: 120,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if update.State.Phase != string(domain.PhaseScored) {
		t.Fatalf("phase = %s, want scored", update.State.Phase)
	}
	if update.State.Current.Score.Overall != 8 {
		t.Fatalf("overall = %d, want 8", update.State.Current.Score.Overall)
	}
	if usage.tracks != 1 {
		t.Fatalf("usage tracked %d times, want 1", usage.tracks)
	}

	// The synchronous runner resolved the background fetches already.
	state := interactor.State(ctx)
	if state.Current.Score.Feedback != "detailed feedback" {
		t.Fatalf("feedback = %q, want the detailed text", state.Current.Score.Feedback)
	}
	if state.Current.ModelAnswer != "A model response." {
		t.Fatalf("model answer = %q", state.Current.ModelAnswer)
	}

	update, err = interactor.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if update.State.Current.QuestionID != 102 {
		t.Fatalf("question = %d, want 102", update.State.Current.QuestionID)
	}
	if len(update.State.History) != 1 || update.State.History[0].Score.Overall != 8 {
		t.Fatalf("history = %+v, want question 101 archived with overall 8", update.State.History)
	}

	update, err = interactor.EndSession(ctx)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if update.State.Phase != string(domain.PhaseIdle) {
		t.Fatalf("phase = %s, want idle after end", update.State.Phase)
	}
	if gateway.closedID != "ps-1" {
		t.Fatalf("closed session = %q, want ps-1", gateway.closedID)
	}
}

func TestStartBlockedWithoutPracticeAllowance(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{questions: []domain.Question{{ID: 1}}}
	usage := &fakeUsage{status: usagedto.StatusOutput{
		Plan:               "anonymous",
		CanPractice:        false,
		QuestionsRemaining: 0,
		QuestionsLimit:     3,
	}}
	interactor := newTestInteractor(gateway, usage)

	update, err := interactor.Start(context.Background(), dto.StartInput{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if gateway.starts != 0 {
		t.Fatal("no start-interview call may be issued when practice is blocked")
	}
	if update.Prompt == nil || update.Prompt.Reason != usagedto.ReasonLimitReached {
		t.Fatalf("prompt = %+v, want limit_reached", update.Prompt)
	}
	if update.Prompt.Authenticated {
		t.Fatal("anonymous blocked start must carry the unauthenticated prompt variant")
	}
	if update.State.Phase != string(domain.PhaseIdle) {
		t.Fatalf("phase = %s, want idle", update.State.Phase)
	}
}

func TestNextQuestionBlockedAfterLimitFlip(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions: []domain.Question{{ID: 1}, {ID: 2}},
		answerID:  "ans-1",
		summary:   domain.Score{Overall: 7},
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{AnswerText: "A long enough answer for submission."}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	usage.status.CanPractice = false
	startsBefore := gateway.starts
	update, err := interactor.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if gateway.starts != startsBefore {
		t.Fatal("no start-interview call once the limit flipped")
	}
	if update.Prompt == nil || update.Prompt.Reason != usagedto.ReasonLimitReached {
		t.Fatalf("prompt = %+v, want limit_reached", update.Prompt)
	}
}

func TestShortAnswerRejectedWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{questions: []domain.Question{{ID: 1}}}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	update, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{AnswerText: "too short"})
	if !errors.Is(err, domain.ErrAnswerTooShort) {
		t.Fatalf("err = %v, want ErrAnswerTooShort", err)
	}
	if gateway.submits != 0 {
		t.Fatal("a locally rejected answer must not reach the network")
	}
	if update.State.Banner == "" {
		t.Fatal("rejection must set a user-facing banner")
	}
	if usage.tracks != 0 {
		t.Fatal("usage tracking only fires after an accepted submission")
	}
}

func TestUsageTrackedEvenWhenScoringFails(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions:  []domain.Question{{ID: 1}},
		answerID:   "ans-1",
		summaryErr: errors.New("scoring backend down"),
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	update, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{AnswerText: "A long enough answer for submission."})
	if err == nil {
		t.Fatal("summary failure must propagate")
	}
	if usage.tracks != 1 {
		t.Fatalf("usage tracked %d times, want 1 regardless of scoring outcome", usage.tracks)
	}
	if update.State.Phase != string(domain.PhaseQuestionLoaded) {
		t.Fatalf("phase = %s, want question_loaded so the user can retry", update.State.Phase)
	}
	if update.State.Banner == "" {
		t.Fatal("scoring failure must surface a banner")
	}
}

func TestBackgroundFailuresAreSilent(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions: []domain.Question{{ID: 1}},
		answerID:  "ans-1",
		summary:   domain.Score{Overall: 7, Feedback: "summary feedback"},
		detailErr: errors.New("detail backend down"),
		modelErr:  errors.New("model backend down"),
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	update, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{AnswerText: "A long enough answer for submission."})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if update.State.Phase != string(domain.PhaseScored) {
		t.Fatalf("phase = %s, want scored despite background failures", update.State.Phase)
	}
	state := interactor.State(ctx)
	if state.Banner != "" {
		t.Fatalf("banner = %q, background failures are logged, never shown", state.Banner)
	}
	if state.Current.Score.Feedback != "summary feedback" {
		t.Fatalf("feedback = %q, want the summary text", state.Current.Score.Feedback)
	}
}

func TestClarificationLoop(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions:   []domain.Question{{ID: 1}},
		clarifyText: "Assume a consumer product.",
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	update, err := interactor.AskClarification(ctx, dto.ClarifyInput{Text: "B2B or consumer?"})
	if err != nil {
		t.Fatalf("AskClarification: %v", err)
	}
	turns := update.State.Current.Conversation
	if len(turns) != 2 {
		t.Fatalf("conversation has %d turns, want 2", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Fatalf("turn roles = %s, %s", turns[0].Role, turns[1].Role)
	}
	if turns[1].Text != "Assume a consumer product." {
		t.Fatalf("assistant turn = %q", turns[1].Text)
	}
}

func TestEndSessionOverridesServerDuration(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions: []domain.Question{{ID: 1}},
		closeResult: interviewout.CloseResult{
			QuestionsCount:  1,
			DurationSeconds: 999_999,
			OverallScore:    7.5,
		},
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	update, err := interactor.EndSession(ctx)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if update.Summary == nil {
		t.Fatal("authenticated end must return a summary")
	}
	// Start and end share the same fixed clock, so the local wall-clock
	// duration is zero regardless of what the server reported.
	if update.Summary.DurationSeconds != 0 {
		t.Fatalf("duration = %d, want the locally measured 0", update.Summary.DurationSeconds)
	}
	if update.Summary.OverallScore != 7.5 {
		t.Fatalf("overall = %v, want 7.5", update.Summary.OverallScore)
	}
}

func TestEndSessionResetsEvenWhenCloseFails(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions: []domain.Question{{ID: 1}},
		closeErr:  errors.New("close failed"),
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	update, err := interactor.EndSession(ctx)
	if err != nil {
		t.Fatalf("EndSession must be best-effort, got %v", err)
	}
	if update.State.Phase != string(domain.PhaseIdle) {
		t.Fatalf("phase = %s, want idle", update.State.Phase)
	}
	if update.Summary != nil {
		t.Fatal("no summary when the close call failed")
	}
}

func TestModelAnswerToggle(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions:   []domain.Question{{ID: 1}},
		answerID:    "ans-1",
		summary:     domain.Score{Dimensions: domain.Dimensions{Structure: 8, Metrics: 8, Prioritization: 8, UserEmpathy: 8, Communication: 8}},
		modelAnswer: "a structured walkthrough",
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := interactor.ViewModelAnswer(ctx); err == nil {
		t.Fatal("model answer must be unavailable before the attempt is scored")
	}
	if _, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{AnswerText: "a long enough practice answer"}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	update, err := interactor.ViewModelAnswer(ctx)
	if err != nil {
		t.Fatalf("ViewModelAnswer: %v", err)
	}
	if update.State.Phase != string(domain.PhaseViewingModelAnswer) {
		t.Fatalf("phase = %s, want viewing_model_answer", update.State.Phase)
	}
	if update.State.Current.ModelAnswer != "a structured walkthrough" {
		t.Fatalf("model answer = %q", update.State.Current.ModelAnswer)
	}

	update, err = interactor.CloseModelAnswer(ctx)
	if err != nil {
		t.Fatalf("CloseModelAnswer: %v", err)
	}
	if update.State.Phase != string(domain.PhaseScored) {
		t.Fatalf("phase = %s, want scored", update.State.Phase)
	}
}

func TestFailedNextLoadKeepsSessionClosable(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		questions:   []domain.Question{{ID: 101, Prompt: "Improve retention for a music app."}},
		answerID:    "ans-101",
		summary:     domain.Score{Overall: 8},
		closeResult: interviewout.CloseResult{QuestionsCount: 1},
	}
	usage := &fakeUsage{status: freePlan()}
	interactor := newTestInteractor(gateway, usage)
	ctx := context.Background()

	if _, err := interactor.Start(ctx, dto.StartInput{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := interactor.SubmitAnswer(ctx, dto.SubmitInput{
		AnswerText: "This is a sufficiently long test answer for scoring.",
	}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// The gateway has no second question, so the load fails.
	update, err := interactor.NextQuestion(ctx)
	if err == nil {
		t.Fatal("NextQuestion must surface the load failure")
	}
	if update.State.Phase != string(domain.PhaseScored) {
		t.Fatalf("phase = %s, want scored after a failed load", update.State.Phase)
	}
	if update.State.Current == nil || update.State.Current.QuestionID != 101 {
		t.Fatalf("current = %+v, want question 101 restored", update.State.Current)
	}
	if update.State.PracticeSessionID != "ps-1" {
		t.Fatalf("practice session = %q, want ps-1 still open", update.State.PracticeSessionID)
	}

	// Retrying works: the flow is back in a phase that accepts another next.
	if _, err := interactor.NextQuestion(ctx); err == nil {
		t.Fatal("retry must fail again while the gateway is empty")
	}

	update, err = interactor.EndSession(ctx)
	if err != nil {
		t.Fatalf("EndSession after failed load: %v", err)
	}
	if gateway.closedID != "ps-1" {
		t.Fatalf("closed session = %q, want ps-1", gateway.closedID)
	}
	if update.Summary == nil || update.Summary.QuestionsCount != 1 {
		t.Fatalf("summary = %+v, want the one answered question counted", update.Summary)
	}
}
