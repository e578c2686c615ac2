package out

import "context"

// Subscription is the server's view of the account's plan.
type Subscription struct {
	Plan      string
	Active    bool
	RenewsAt  string
	CancelsAt string
}

type Gateway interface {
	// CreateCheckout returns the hosted checkout URL for the currency.
	CreateCheckout(ctx context.Context, currency string) (url string, err error)
	CancelSubscription(ctx context.Context) error
	SubscriptionStatus(ctx context.Context) (Subscription, error)
}
