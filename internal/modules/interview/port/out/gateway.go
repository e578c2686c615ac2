package out

import (
	"context"

	"pmprep/internal/modules/interview/domain"
)

// StartResult is the normalized shape of a start-interview response.
type StartResult struct {
	Question domain.Question
}

// CloseResult is the server-side summary of a closed practice session.
type CloseResult struct {
	QuestionsCount  int
	DurationSeconds int
	OverallScore    float64
	ByCategory      map[string]float64
}

// Gateway wraps the interview endpoints. Each method normalizes its response
// at the boundary so the rest of the module sees one canonical shape.
type Gateway interface {
	StartInterview(ctx context.Context, category string) (StartResult, error)
	Categories(ctx context.Context) ([]CategoryResult, error)
	SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (answerID string, err error)
	SummarizedScore(ctx context.Context, answerID string) (domain.Score, error)
	DetailedScore(ctx context.Context, answerID string) (domain.Score, error)
	Clarify(ctx context.Context, questionID int, userMessage string, history []domain.Turn) (string, error)
	ModelAnswer(ctx context.Context, questionID int) (string, error)
	OpenPracticeSession(ctx context.Context) (practiceSessionID string, err error)
	ClosePracticeSession(ctx context.Context, practiceSessionID string) (CloseResult, error)
}

type CategoryResult struct {
	Value string
	Label string
}

type SubmitAnswerInput struct {
	QuestionID        int
	AnswerText        string
	PracticeSessionID string
	AnswerID          string
	TimeTakenSeconds  int
}
