package in

import (
	"context"

	billingdto "pmprep/internal/modules/billing/dto"
	billingin "pmprep/internal/modules/billing/port/in"
)

type CLIHandler struct {
	usecase billingin.Usecase
}

func NewCLIHandler(usecase billingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Upgrade(ctx context.Context) (string, error) {
	return h.usecase.StartCheckout(ctx)
}

func (h CLIHandler) Cancel(ctx context.Context) error {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (billingdto.SubscriptionOutput, error) {
	return h.usecase.Status(ctx)
}
