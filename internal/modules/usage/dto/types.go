package dto

// Upgrade prompt reasons shown to the user when an action is gated.
const (
	ReasonLimitReached = "limit_reached"
	ReasonFeatureLock  = "feature_locked"
	ReasonTrialExpired = "trial_expired"
)

type StatusOutput struct {
	Plan                string
	CanPractice         bool
	QuestionsUsed       int
	QuestionsRemaining  int
	QuestionsLimit      int
	TrialHoursRemaining float64
	Locked              map[string]bool
	Authenticated       bool
	// Degraded is set when the status is a client-side fallback applied after
	// a tracker outage rather than a server answer.
	Degraded bool
}

// UpgradePrompt describes the modal the UI must open before any further
// gated action proceeds.
type UpgradePrompt struct {
	Reason        string
	Authenticated bool
	Plan          string
}
