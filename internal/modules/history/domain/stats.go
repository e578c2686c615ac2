package domain

import (
	"math"
	"sort"
	"time"
)

// SessionRecord is one past practice session as listed by the server.
type SessionRecord struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time
	QuestionsCount int
	OverallScore   float64
	Categories     []string
}

// AnswerRecord is one answered question inside a session detail.
type AnswerRecord struct {
	QuestionID int
	Prompt     string
	Category   string
	AnswerText string
	Overall    int
	Feedback   string
}

type SessionDetail struct {
	SessionRecord
	Answers []AnswerRecord
}

// Stats are the dashboard aggregates. The server only stores raw sessions;
// all aggregation happens client-side from the list.
type Stats struct {
	SessionsCount  int
	QuestionsCount int
	AverageScore   float64
	BestScore      float64
	ByCategory     map[string]float64
	RecentScores   []float64
}

// ComputeStats aggregates the session list. Sessions with no questions are
// counted but contribute nothing to score averages. RecentScores holds up to
// the ten most recent session scores, oldest first, for trend rendering.
func ComputeStats(records []SessionRecord) Stats {
	stats := Stats{SessionsCount: len(records)}
	if len(records) == 0 {
		return stats
	}

	sorted := append([]SessionRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	var scoreSum float64
	var scored int
	categorySums := make(map[string]float64)
	categoryCounts := make(map[string]int)
	for _, r := range sorted {
		stats.QuestionsCount += r.QuestionsCount
		if r.QuestionsCount == 0 {
			continue
		}
		scored++
		scoreSum += r.OverallScore
		if r.OverallScore > stats.BestScore {
			stats.BestScore = r.OverallScore
		}
		for _, cat := range r.Categories {
			categorySums[cat] += r.OverallScore
			categoryCounts[cat]++
		}
	}
	if scored > 0 {
		stats.AverageScore = round1(scoreSum / float64(scored))
	}
	if len(categorySums) > 0 {
		stats.ByCategory = make(map[string]float64, len(categorySums))
		for cat, sum := range categorySums {
			stats.ByCategory[cat] = round1(sum / float64(categoryCounts[cat]))
		}
	}

	start := len(sorted) - 10
	if start < 0 {
		start = 0
	}
	for _, r := range sorted[start:] {
		if r.QuestionsCount == 0 {
			continue
		}
		stats.RecentScores = append(stats.RecentScores, r.OverallScore)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
