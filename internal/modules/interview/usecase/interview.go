package usecase

import (
	"context"
	"errors"
	"sync"

	"pmprep/internal/modules/interview/domain"
	"pmprep/internal/modules/interview/dto"
	interviewin "pmprep/internal/modules/interview/port/in"
	interviewout "pmprep/internal/modules/interview/port/out"
	usagedto "pmprep/internal/modules/usage/dto"
	usagein "pmprep/internal/modules/usage/port/in"
	"pmprep/internal/platform/clock"
	"pmprep/internal/platform/debuglog"
	apperrors "pmprep/internal/platform/errors"
)

// Runner schedules background work. The default runs each task in its own
// goroutine; tests substitute a synchronous runner.
type Runner func(func())

// Interactor drives one practice session. All flow mutations go through
// apply under the mutex; network calls happen outside it so a slow response
// never blocks an unrelated operation.
type Interactor struct {
	gateway interviewout.Gateway
	usage   usagein.Usecase
	clock   clock.Clock
	log     debuglog.Logger
	run     Runner

	mu           sync.Mutex
	flow         *domain.Flow
	banner       string
	lastCategory string

	updates chan interviewin.Update
}

func NewInteractor(gateway interviewout.Gateway, usage usagein.Usecase, clk clock.Clock, log debuglog.Logger, run Runner) *Interactor {
	if log == nil {
		log = debuglog.Nop{}
	}
	if run == nil {
		run = func(f func()) { go f() }
	}
	return &Interactor{
		gateway: gateway,
		usage:   usage,
		clock:   clk,
		log:     log,
		run:     run,
		flow:    domain.NewFlow(),
		updates: make(chan interviewin.Update, 16),
	}
}

func (i *Interactor) Updates() <-chan interviewin.Update {
	return i.updates
}

func (i *Interactor) State(context.Context) dto.State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snapshotLocked()
}

func (i *Interactor) Categories(ctx context.Context) ([]dto.Category, error) {
	results, err := i.gateway.Categories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]dto.Category, 0, len(results))
	for _, r := range results {
		categories = append(categories, dto.Category{Value: r.Value, Label: r.Label})
	}
	return categories, nil
}

func (i *Interactor) Start(ctx context.Context, in dto.StartInput) (interviewin.Update, error) {
	status, allowed := i.gate(ctx, false)
	if !allowed {
		return i.blockedUpdate(status), nil
	}

	if err := i.apply(domain.StartRequested{Category: in.Category, At: i.clock.Now()}); err != nil {
		return i.update(), err
	}
	i.mu.Lock()
	i.lastCategory = in.Category
	i.mu.Unlock()

	if status.Authenticated {
		if psid, err := i.gateway.OpenPracticeSession(ctx); err != nil {
			i.log.Printf("open practice session: %v", err)
		} else {
			i.mu.Lock()
			i.flow.Session.PracticeSessionID = psid
			i.mu.Unlock()
		}
	}

	return i.loadQuestion(ctx, in.Category)
}

func (i *Interactor) AskClarification(ctx context.Context, in dto.ClarifyInput) (interviewin.Update, error) {
	i.mu.Lock()
	if i.flow.Current == nil {
		i.mu.Unlock()
		return i.update(), apperrors.ErrNoActiveSession
	}
	questionID := i.flow.Current.ID
	if err := i.flow.Apply(domain.ClarifyBegan{QuestionID: questionID, UserText: in.Text}); err != nil {
		i.mu.Unlock()
		return i.update(), err
	}
	history := append([]domain.Turn(nil), i.flow.Current.Conversation...)
	i.mu.Unlock()

	reply, err := i.gateway.Clarify(ctx, questionID, in.Text, history)
	if err != nil {
		i.applyQuiet(domain.ClarifyFailed{QuestionID: questionID})
		i.setBanner(apperrors.Humanize(err))
		return i.update(), err
	}
	if applyErr := i.apply(domain.ClarifyResolved{QuestionID: questionID, AssistantText: reply}); applyErr != nil {
		return i.update(), applyErr
	}
	return i.update(), nil
}

func (i *Interactor) SubmitAnswer(ctx context.Context, in dto.SubmitInput) (interviewin.Update, error) {
	i.mu.Lock()
	if i.flow.Current == nil {
		i.mu.Unlock()
		return i.update(), apperrors.ErrNoActiveSession
	}
	questionID := i.flow.Current.ID
	previousAnswerID := i.flow.Current.AnswerID
	practiceSessionID := i.flow.Session.PracticeSessionID
	err := i.flow.Apply(domain.SubmitBegan{
		QuestionID:     questionID,
		AnswerText:     in.AnswerText,
		ElapsedSeconds: in.ElapsedSeconds,
	})
	i.mu.Unlock()
	if err != nil {
		if errors.Is(err, domain.ErrAnswerTooShort) {
			i.setBanner(apperrors.MsgAnswerTooShort)
		}
		return i.update(), err
	}

	answerID, err := i.gateway.SubmitAnswer(ctx, interviewout.SubmitAnswerInput{
		QuestionID:        questionID,
		AnswerText:        in.AnswerText,
		PracticeSessionID: practiceSessionID,
		AnswerID:          previousAnswerID,
		TimeTakenSeconds:  in.ElapsedSeconds,
	})
	if err != nil {
		i.applyQuiet(domain.SubmitFailed{QuestionID: questionID})
		i.setBanner(apperrors.Humanize(err))
		return i.update(), err
	}
	if applyErr := i.apply(domain.AnswerAccepted{QuestionID: questionID, AnswerID: answerID}); applyErr != nil {
		return i.update(), applyErr
	}

	// Usage tracking is decoupled from scoring: it fires now and its outcome
	// never blocks or fails the scoring path.
	i.run(func() { i.trackUsage(ctx) })

	summary, err := i.gateway.SummarizedScore(ctx, answerID)
	if err != nil {
		i.applyQuiet(domain.SummaryFailed{QuestionID: questionID})
		i.setBanner(apperrors.Humanize(err))
		return i.update(), err
	}
	if applyErr := i.apply(domain.SummaryScored{QuestionID: questionID, Score: summary}); applyErr != nil {
		return i.update(), applyErr
	}

	// Detailed score and model answer resolve in the background, in either
	// order. Failures are logged only; the summary already gave the user a
	// usable result.
	i.run(func() { i.fetchDetail(ctx, questionID, answerID) })
	i.run(func() { i.fetchModelAnswer(ctx, questionID) })

	return i.update(), nil
}

func (i *Interactor) NextQuestion(ctx context.Context) (interviewin.Update, error) {
	// The allowance may have flipped since the last submission; always
	// re-check before loading another question.
	status, allowed := i.gate(ctx, true)
	if !allowed {
		return i.blockedUpdate(status), nil
	}

	i.mu.Lock()
	category := i.lastCategory
	i.mu.Unlock()
	if err := i.apply(domain.NextRequested{}); err != nil {
		return i.update(), err
	}
	return i.loadQuestion(ctx, category)
}

func (i *Interactor) ViewModelAnswer(context.Context) (interviewin.Update, error) {
	if err := i.apply(domain.ModelAnswerOpened{}); err != nil {
		return i.update(), err
	}
	return i.update(), nil
}

func (i *Interactor) CloseModelAnswer(context.Context) (interviewin.Update, error) {
	if err := i.apply(domain.ModelAnswerClosed{}); err != nil {
		return i.update(), err
	}
	return i.update(), nil
}

func (i *Interactor) EndSession(ctx context.Context) (interviewin.Update, error) {
	now := i.clock.Now()
	i.mu.Lock()
	practiceSessionID := i.flow.Session.PracticeSessionID
	startedAt := i.flow.Session.StartedAt
	err := i.flow.Apply(domain.SessionEnded{At: now})
	if err == nil {
		// A new session begins from a fresh flow.
		i.flow = domain.NewFlow()
		i.banner = ""
	}
	i.mu.Unlock()
	if err != nil {
		return i.update(), err
	}

	update := i.update()
	if practiceSessionID == "" {
		return update, nil
	}

	// Best-effort close: the local state is already reset either way.
	result, closeErr := i.gateway.ClosePracticeSession(ctx, practiceSessionID)
	if closeErr != nil {
		i.log.Printf("close practice session %s: %v", practiceSessionID, closeErr)
		return update, nil
	}
	update.Summary = &dto.SessionSummary{
		QuestionsCount: result.QuestionsCount,
		// The locally measured duration wins over the server's to avoid
		// clock skew.
		DurationSeconds: int(now.Sub(startedAt).Seconds()),
		OverallScore:    result.OverallScore,
		ByCategory:      result.ByCategory,
	}
	return update, nil
}

func (i *Interactor) loadQuestion(ctx context.Context, category string) (interviewin.Update, error) {
	result, err := i.gateway.StartInterview(ctx, category)
	if err != nil {
		i.applyQuiet(domain.StartFailed{})
		i.setBanner(apperrors.Humanize(err))
		return i.update(), err
	}
	if applyErr := i.apply(domain.QuestionLoaded{Question: result.Question}); applyErr != nil {
		return i.update(), applyErr
	}
	return i.update(), nil
}

// gate consults the usage status, fetching when unknown or when a fresh
// check is required. A tracker outage never blocks: the fallback status
// allows practice.
func (i *Interactor) gate(ctx context.Context, force bool) (usagedto.StatusOutput, bool) {
	status, ok := i.usage.Snapshot(ctx)
	if force || !ok {
		checked, err := i.usage.Check(ctx)
		if err != nil {
			i.log.Printf("usage check: %v", err)
		}
		status = checked
	}
	return status, status.CanPractice
}

func (i *Interactor) trackUsage(ctx context.Context) {
	status, err := i.usage.Track(ctx)
	if err != nil {
		i.log.Printf("usage track: %v", err)
		return
	}
	if !status.CanPractice {
		i.push(interviewin.Update{
			State:  i.State(ctx),
			Prompt: upgradePrompt(status),
		})
	}
}

func (i *Interactor) fetchDetail(ctx context.Context, questionID int, answerID string) {
	score, err := i.gateway.DetailedScore(ctx, answerID)
	if err != nil {
		i.log.Printf("detailed score for question %d: %v", questionID, err)
		return
	}
	if err := i.apply(domain.DetailScored{QuestionID: questionID, Score: score}); err != nil {
		i.log.Printf("apply detailed score for question %d: %v", questionID, err)
		return
	}
	i.push(interviewin.Update{State: i.State(ctx)})
}

func (i *Interactor) fetchModelAnswer(ctx context.Context, questionID int) {
	text, err := i.gateway.ModelAnswer(ctx, questionID)
	if err != nil {
		i.log.Printf("model answer for question %d: %v", questionID, err)
		return
	}
	if err := i.apply(domain.ModelAnswerLoaded{QuestionID: questionID, Text: text}); err != nil {
		i.log.Printf("apply model answer for question %d: %v", questionID, err)
		return
	}
	i.push(interviewin.Update{State: i.State(ctx)})
}

func (i *Interactor) blockedUpdate(status usagedto.StatusOutput) interviewin.Update {
	update := i.update()
	update.Prompt = upgradePrompt(status)
	return update
}

func upgradePrompt(status usagedto.StatusOutput) *usagedto.UpgradePrompt {
	return &usagedto.UpgradePrompt{
		Reason:        usagedto.ReasonLimitReached,
		Authenticated: status.Authenticated,
		Plan:          status.Plan,
	}
}

func (i *Interactor) apply(ev domain.Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.flow.Apply(ev)
}

// applyQuiet is for cleanup transitions where a staleness rejection is the
// expected outcome, not a fault.
func (i *Interactor) applyQuiet(ev domain.Event) {
	if err := i.apply(ev); err != nil {
		i.log.Printf("apply %T: %v", ev, err)
	}
}

func (i *Interactor) setBanner(text string) {
	i.mu.Lock()
	i.banner = text
	i.mu.Unlock()
}

func (i *Interactor) update() interviewin.Update {
	i.mu.Lock()
	defer i.mu.Unlock()
	return interviewin.Update{State: i.snapshotLocked()}
}

func (i *Interactor) push(update interviewin.Update) {
	select {
	case i.updates <- update:
	default:
		i.log.Printf("dropping update, channel full")
	}
}

func (i *Interactor) snapshotLocked() dto.State {
	state := dto.State{
		Phase:             string(i.flow.Phase),
		PracticeSessionID: i.flow.Session.PracticeSessionID,
		ClarifyInFlight:   i.flow.ClarifyInFlight,
		Banner:            i.banner,
	}
	if i.flow.Current != nil {
		out := toAttemptOutput(*i.flow.Current)
		state.Current = &out
	}
	for _, attempt := range i.flow.Session.History {
		state.History = append(state.History, toAttemptOutput(attempt))
	}
	return state
}

func toAttemptOutput(a domain.Attempt) dto.AttemptOutput {
	out := dto.AttemptOutput{
		QuestionID:     a.ID,
		Prompt:         a.Prompt,
		Category:       a.Category,
		Companies:      a.Companies,
		AnswerID:       a.AnswerID,
		AnswerText:     a.AnswerText,
		Completed:      a.Status == domain.AttemptCompleted,
		ModelAnswer:    a.ModelAnswer,
		ElapsedSeconds: a.ElapsedSeconds,
	}
	for _, turn := range a.Conversation {
		out.Conversation = append(out.Conversation, dto.Turn{Role: string(turn.Role), Text: turn.Text})
	}
	if score := a.DisplayScore(); score != nil {
		out.Score = &dto.ScoreOutput{
			Structure:      score.Dimensions.Structure,
			Metrics:        score.Dimensions.Metrics,
			Prioritization: score.Dimensions.Prioritization,
			UserEmpathy:    score.Dimensions.UserEmpathy,
			Communication:  score.Dimensions.Communication,
			Overall:        score.Overall,
			Feedback:       score.Feedback,
			SampleAnswer:   score.SampleAnswer,
		}
	}
	return out
}
