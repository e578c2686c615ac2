package out

import (
	"context"
	"fmt"
	"net/http"

	billingout "pmprep/internal/modules/billing/port/out"
	"pmprep/internal/platform/api"
)

type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) billingout.Gateway {
	return &APIGateway{client: client}
}

func (g *APIGateway) CreateCheckout(ctx context.Context, currency string) (string, error) {
	body := map[string]string{"currency": currency}
	var wire struct {
		URL         string `json:"url"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/api/payment/create-checkout-session", body, &wire); err != nil {
		return "", err
	}
	if wire.URL != "" {
		return wire.URL, nil
	}
	if wire.CheckoutURL != "" {
		return wire.CheckoutURL, nil
	}
	return "", fmt.Errorf("checkout response carries no url")
}

func (g *APIGateway) CancelSubscription(ctx context.Context) error {
	return g.client.Do(ctx, http.MethodPost, "/api/payment/cancel-subscription", nil, nil)
}

func (g *APIGateway) SubscriptionStatus(ctx context.Context) (billingout.Subscription, error) {
	var wire struct {
		Plan      string `json:"plan"`
		Active    bool   `json:"active"`
		RenewsAt  string `json:"renewsAt"`
		CancelsAt string `json:"cancelsAt"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/api/payment/subscription-status", nil, &wire); err != nil {
		return billingout.Subscription{}, err
	}
	return billingout.Subscription{
		Plan:      wire.Plan,
		Active:    wire.Active,
		RenewsAt:  wire.RenewsAt,
		CancelsAt: wire.CancelsAt,
	}, nil
}
