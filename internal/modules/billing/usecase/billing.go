package usecase

import (
	"context"

	"pmprep/internal/modules/billing/dto"
	billingin "pmprep/internal/modules/billing/port/in"
	billingout "pmprep/internal/modules/billing/port/out"
	"pmprep/internal/platform/launcher"
)

type Interactor struct {
	gateway  billingout.Gateway
	launcher launcher.Launcher
	currency string
}

func NewInteractor(gateway billingout.Gateway, open launcher.Launcher, currency string) billingin.Usecase {
	return &Interactor{gateway: gateway, launcher: open, currency: currency}
}

func (i *Interactor) StartCheckout(ctx context.Context) (string, error) {
	url, err := i.gateway.CreateCheckout(ctx, i.currency)
	if err != nil {
		return "", err
	}
	if err := i.launcher.Open(ctx, url); err != nil {
		// The URL is still usable by hand.
		return url, err
	}
	return url, nil
}

func (i *Interactor) Cancel(ctx context.Context) error {
	return i.gateway.CancelSubscription(ctx)
}

func (i *Interactor) Status(ctx context.Context) (dto.SubscriptionOutput, error) {
	sub, err := i.gateway.SubscriptionStatus(ctx)
	if err != nil {
		return dto.SubscriptionOutput{}, err
	}
	return dto.SubscriptionOutput{
		Plan:      sub.Plan,
		Active:    sub.Active,
		RenewsAt:  sub.RenewsAt,
		CancelsAt: sub.CancelsAt,
	}, nil
}
