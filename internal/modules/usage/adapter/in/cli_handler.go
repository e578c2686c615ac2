package in

import (
	"context"

	usagedto "pmprep/internal/modules/usage/dto"
	usagein "pmprep/internal/modules/usage/port/in"
)

type CLIHandler struct {
	usecase usagein.Usecase
}

func NewCLIHandler(usecase usagein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (usagedto.StatusOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Fingerprint(ctx context.Context) string {
	return h.usecase.Fingerprint(ctx)
}
