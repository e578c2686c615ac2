package domain

type PlanType string

const (
	PlanAnonymous PlanType = "anonymous"
	PlanFree      PlanType = "free"
	PlanProTrial  PlanType = "pro_trial"
	PlanProPaid   PlanType = "pro_paid"
)

// Feature names a gated capability; the server decides which features a plan
// may use, the client only renders the locks.
type Feature string

const (
	FeatureCategory  Feature = "category"
	FeatureVoice     Feature = "voice"
	FeatureTimer     Feature = "timer"
	FeatureDashboard Feature = "dashboard"
	FeatureHistory   Feature = "history"
)

// Status is a read-only snapshot of the caller's usage allowance. The tracker
// service is its sole writer; every other component treats a Status value as
// immutable.
type Status struct {
	Plan                PlanType
	CanPractice         bool
	QuestionsUsed       int
	QuestionsRemaining  int
	QuestionsLimit      int
	TrialHoursRemaining float64
	Locked              map[Feature]bool
}

func (s Status) Authenticated() bool {
	return s.Plan != PlanAnonymous
}

func (s Status) IsLocked(f Feature) bool {
	return s.Locked[f]
}

// DefensiveFallback is the status applied when the usage endpoint is
// unreachable. A tracker outage must never fully block the product, so the
// fallback permits practice with a conservative remaining count.
func DefensiveFallback() Status {
	return Status{
		Plan:               PlanAnonymous,
		CanPractice:        true,
		QuestionsRemaining: 1,
		QuestionsLimit:     3,
	}
}
