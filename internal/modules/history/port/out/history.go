package out

import (
	"context"

	"pmprep/internal/modules/history/domain"
)

type Gateway interface {
	Sessions(ctx context.Context) ([]domain.SessionRecord, error)
	Session(ctx context.Context, id string) (domain.SessionDetail, error)
}
