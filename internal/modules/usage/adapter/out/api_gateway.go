package out

import (
	"context"
	"net/http"
	"strings"

	"pmprep/internal/modules/usage/domain"
	usageout "pmprep/internal/modules/usage/port/out"
	"pmprep/internal/platform/api"
)

type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) usageout.Gateway {
	return &APIGateway{client: client}
}

// usageWire tolerates both snake_case and camelCase spellings; the backend has
// shipped both. Normalization happens here, at the API boundary, so every
// other component sees exactly one shape.
type usageWire struct {
	PlanType            string          `json:"plan_type"`
	PlanTypeCamel       string          `json:"planType"`
	CanPractice         *bool           `json:"can_practice"`
	CanPracticeCamel    *bool           `json:"canPractice"`
	QuestionsUsed       int             `json:"questions_used"`
	QuestionsUsedCamel  int             `json:"questionsUsed"`
	QuestionsLeft       int             `json:"questions_remaining"`
	QuestionsLeftCamel  int             `json:"questionsRemaining"`
	QuestionsLimit      int             `json:"questions_limit"`
	QuestionsLimitCamel int             `json:"questionsLimit"`
	TrialHours          float64         `json:"trial_hours_remaining"`
	TrialHoursCamel     float64         `json:"trialHoursRemaining"`
	Locked              map[string]bool `json:"is_locked"`
	LockedCamel         map[string]bool `json:"isLocked"`
}

func (g *APIGateway) CheckLimit(ctx context.Context, fingerprint string) (domain.Status, error) {
	var wire usageWire
	body := map[string]string{"fingerprint": fingerprint}
	if err := g.client.Do(ctx, http.MethodPost, "/api/usage/check", body, &wire); err != nil {
		return domain.Status{}, err
	}
	return normalizeStatus(wire), nil
}

func (g *APIGateway) TrackQuestion(ctx context.Context, fingerprint string) (domain.Status, error) {
	var wire usageWire
	body := map[string]string{"fingerprint": fingerprint}
	if err := g.client.Do(ctx, http.MethodPost, "/api/usage/track", body, &wire); err != nil {
		return domain.Status{}, err
	}
	return normalizeStatus(wire), nil
}

func normalizeStatus(wire usageWire) domain.Status {
	plan := firstNonEmpty(wire.PlanType, wire.PlanTypeCamel)
	status := domain.Status{
		Plan:                normalizePlan(plan),
		QuestionsUsed:       firstNonZero(wire.QuestionsUsed, wire.QuestionsUsedCamel),
		QuestionsRemaining:  firstNonZero(wire.QuestionsLeft, wire.QuestionsLeftCamel),
		QuestionsLimit:      firstNonZero(wire.QuestionsLimit, wire.QuestionsLimitCamel),
		TrialHoursRemaining: wire.TrialHours,
	}
	if status.TrialHoursRemaining == 0 {
		status.TrialHoursRemaining = wire.TrialHoursCamel
	}
	switch {
	case wire.CanPractice != nil:
		status.CanPractice = *wire.CanPractice
	case wire.CanPracticeCamel != nil:
		status.CanPractice = *wire.CanPracticeCamel
	default:
		// Paid plans omit the flag entirely.
		status.CanPractice = status.Plan == domain.PlanProTrial || status.Plan == domain.PlanProPaid
	}

	locked := wire.Locked
	if locked == nil {
		locked = wire.LockedCamel
	}
	if len(locked) > 0 {
		status.Locked = make(map[domain.Feature]bool, len(locked))
		for name, isLocked := range locked {
			status.Locked[domain.Feature(name)] = isLocked
		}
	}
	return status
}

func normalizePlan(raw string) domain.PlanType {
	switch domain.PlanType(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.PlanFree:
		return domain.PlanFree
	case domain.PlanProTrial:
		return domain.PlanProTrial
	case domain.PlanProPaid:
		return domain.PlanProPaid
	default:
		return domain.PlanAnonymous
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
