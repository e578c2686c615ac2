package in

import (
	"context"

	"pmprep/internal/modules/billing/dto"
)

type Usecase interface {
	// StartCheckout creates a checkout session and opens it in the browser;
	// payment itself completes on the hosted page.
	StartCheckout(ctx context.Context) (url string, err error)
	Cancel(ctx context.Context) error
	Status(ctx context.Context) (dto.SubscriptionOutput, error)
}
