package in

import (
	"context"

	"pmprep/internal/modules/interview/dto"
	usagedto "pmprep/internal/modules/usage/dto"
)

// Update is pushed to the UI whenever the session state changes, including
// changes caused by background responses.
type Update struct {
	State   dto.State
	Prompt  *usagedto.UpgradePrompt
	Summary *dto.SessionSummary
}

type Usecase interface {
	// Start begins a session, fetching the first question. An empty category
	// means mixed. When the usage status blocks practice no network call is
	// made and the returned update carries an upgrade prompt.
	Start(ctx context.Context, in dto.StartInput) (Update, error)
	// AskClarification appends a user turn and requests the assistant reply.
	// A second call while one is in flight is rejected.
	AskClarification(ctx context.Context, in dto.ClarifyInput) (Update, error)
	// SubmitAnswer validates locally, submits, fires usage tracking, then
	// requests the summarized score. Detailed score and model answer are
	// fetched in the background and surface via Updates.
	SubmitAnswer(ctx context.Context, in dto.SubmitInput) (Update, error)
	// NextQuestion archives the scored attempt and loads the next question,
	// re-checking the usage gate first.
	NextQuestion(ctx context.Context) (Update, error)
	// ViewModelAnswer enters the model answer view once the attempt is
	// scored; CloseModelAnswer returns to the score view.
	ViewModelAnswer(ctx context.Context) (Update, error)
	CloseModelAnswer(ctx context.Context) (Update, error)
	// EndSession closes the session best-effort and resets to idle.
	EndSession(ctx context.Context) (Update, error)
	// Categories lists selectable question categories.
	Categories(ctx context.Context) ([]dto.Category, error)
	// State returns the current snapshot without advancing anything.
	State(ctx context.Context) dto.State
	// Updates is the stream of background state changes. Readers select on it
	// alongside their own event sources.
	Updates() <-chan Update
}
