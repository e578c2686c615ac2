package usecase

import (
	"context"

	"pmprep/internal/modules/history/domain"
	"pmprep/internal/modules/history/dto"
	historyin "pmprep/internal/modules/history/port/in"
	historyout "pmprep/internal/modules/history/port/out"
)

type Interactor struct {
	gateway historyout.Gateway
}

func NewInteractor(gateway historyout.Gateway) historyin.Usecase {
	return &Interactor{gateway: gateway}
}

func (i *Interactor) List(ctx context.Context) ([]dto.SessionOutput, error) {
	records, err := i.gateway.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]dto.SessionOutput, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, toSessionOutput(r))
	}
	return sessions, nil
}

func (i *Interactor) Detail(ctx context.Context, id string) (dto.SessionDetailOutput, error) {
	detail, err := i.gateway.Session(ctx, id)
	if err != nil {
		return dto.SessionDetailOutput{}, err
	}
	out := dto.SessionDetailOutput{SessionOutput: toSessionOutput(detail.SessionRecord)}
	for _, a := range detail.Answers {
		out.Answers = append(out.Answers, dto.AnswerOutput{
			QuestionID: a.QuestionID,
			Prompt:     a.Prompt,
			Category:   a.Category,
			AnswerText: a.AnswerText,
			Overall:    a.Overall,
			Feedback:   a.Feedback,
		})
	}
	return out, nil
}

func (i *Interactor) Dashboard(ctx context.Context) (dto.DashboardOutput, error) {
	records, err := i.gateway.Sessions(ctx)
	if err != nil {
		return dto.DashboardOutput{}, err
	}
	stats := domain.ComputeStats(records)
	return dto.DashboardOutput{
		SessionsCount:  stats.SessionsCount,
		QuestionsCount: stats.QuestionsCount,
		AverageScore:   stats.AverageScore,
		BestScore:      stats.BestScore,
		ByCategory:     stats.ByCategory,
		RecentScores:   stats.RecentScores,
	}, nil
}

func toSessionOutput(r domain.SessionRecord) dto.SessionOutput {
	return dto.SessionOutput{
		ID:             r.ID,
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
		QuestionsCount: r.QuestionsCount,
		OverallScore:   r.OverallScore,
		Categories:     r.Categories,
	}
}
