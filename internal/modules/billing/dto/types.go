package dto

type SubscriptionOutput struct {
	Plan      string
	Active    bool
	RenewsAt  string
	CancelsAt string
}
