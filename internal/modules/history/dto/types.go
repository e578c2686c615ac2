package dto

import "time"

type SessionOutput struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time
	QuestionsCount int
	OverallScore   float64
	Categories     []string
}

type AnswerOutput struct {
	QuestionID int
	Prompt     string
	Category   string
	AnswerText string
	Overall    int
	Feedback   string
}

type SessionDetailOutput struct {
	SessionOutput
	Answers []AnswerOutput
}

type DashboardOutput struct {
	SessionsCount  int
	QuestionsCount int
	AverageScore   float64
	BestScore      float64
	ByCategory     map[string]float64
	RecentScores   []float64
}
