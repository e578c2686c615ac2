package in

import (
	"context"

	interviewdto "pmprep/internal/modules/interview/dto"
	interviewin "pmprep/internal/modules/interview/port/in"
)

type CLIHandler struct {
	usecase interviewin.Usecase
}

func NewCLIHandler(usecase interviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, category string) (interviewin.Update, error) {
	return h.usecase.Start(ctx, interviewdto.StartInput{Category: category})
}

func (h CLIHandler) Clarify(ctx context.Context, text string) (interviewin.Update, error) {
	return h.usecase.AskClarification(ctx, interviewdto.ClarifyInput{Text: text})
}

func (h CLIHandler) Submit(ctx context.Context, text string, elapsedSeconds int) (interviewin.Update, error) {
	return h.usecase.SubmitAnswer(ctx, interviewdto.SubmitInput{AnswerText: text, ElapsedSeconds: elapsedSeconds})
}

func (h CLIHandler) Next(ctx context.Context) (interviewin.Update, error) {
	return h.usecase.NextQuestion(ctx)
}

func (h CLIHandler) ViewModelAnswer(ctx context.Context) (interviewin.Update, error) {
	return h.usecase.ViewModelAnswer(ctx)
}

func (h CLIHandler) CloseModelAnswer(ctx context.Context) (interviewin.Update, error) {
	return h.usecase.CloseModelAnswer(ctx)
}

func (h CLIHandler) End(ctx context.Context) (interviewin.Update, error) {
	return h.usecase.EndSession(ctx)
}

func (h CLIHandler) Categories(ctx context.Context) ([]interviewdto.Category, error) {
	return h.usecase.Categories(ctx)
}
