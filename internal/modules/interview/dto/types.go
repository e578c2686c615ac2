package dto

// Category is one selectable question category.
type Category struct {
	Value string
	Label string
}

type Turn struct {
	Role string
	Text string
}

type ScoreOutput struct {
	Structure      int
	Metrics        int
	Prioritization int
	UserEmpathy    int
	Communication  int
	Overall        int
	Feedback       string
	SampleAnswer   string
}

// AttemptOutput is the render-ready view of one question attempt.
type AttemptOutput struct {
	QuestionID     int
	Prompt         string
	Category       string
	Companies      []string
	AnswerID       string
	AnswerText     string
	Conversation   []Turn
	Completed      bool
	Score          *ScoreOutput
	ModelAnswer    string
	ElapsedSeconds int
}

// State is a snapshot of the running session handed to the UI on every
// update. It is a copy; mutating it has no effect on the flow.
type State struct {
	Phase             string
	PracticeSessionID string
	Current           *AttemptOutput
	History           []AttemptOutput
	ClarifyInFlight   bool
	Banner            string
}

type StartInput struct {
	Category string
}

type SubmitInput struct {
	AnswerText     string
	ElapsedSeconds int
}

type ClarifyInput struct {
	Text string
}

// SessionSummary is what the server reports when an authenticated practice
// session closes. Duration is the locally measured wall-clock value, not the
// server's.
type SessionSummary struct {
	QuestionsCount  int
	DurationSeconds int
	OverallScore    float64
	ByCategory      map[string]float64
}
