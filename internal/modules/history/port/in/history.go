package in

import (
	"context"

	"pmprep/internal/modules/history/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.SessionOutput, error)
	Detail(ctx context.Context, id string) (dto.SessionDetailOutput, error)
	// Dashboard aggregates the session list client-side; the server only
	// stores raw sessions.
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
}
