package in

import (
	"context"

	historydto "pmprep/internal/modules/history/dto"
	historyin "pmprep/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]historydto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Detail(ctx context.Context, id string) (historydto.SessionDetailOutput, error) {
	return h.usecase.Detail(ctx, id)
}

func (h CLIHandler) Dashboard(ctx context.Context) (historydto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}
