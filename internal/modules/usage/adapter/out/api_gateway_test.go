package out

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pmprep/internal/modules/usage/domain"
	"pmprep/internal/platform/api"
)

func TestCheckLimitNormalizesSnakeCase(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/usage/check" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["fingerprint"] != "fp-9" {
			t.Errorf("fingerprint = %q, want fp-9", body["fingerprint"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"plan_type": "free",
			"can_practice": true,
			"questions_used": 2,
			"questions_remaining": 1,
			"questions_limit": 3,
			"is_locked": {"voice": true, "timer": false}
		}`))
	}))
	defer server.Close()

	gateway := NewAPIGateway(api.New(server.URL, time.Second, nil, nil))
	status, err := gateway.CheckLimit(context.Background(), "fp-9")
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if status.Plan != domain.PlanFree || !status.CanPractice {
		t.Fatalf("status = %+v", status)
	}
	if status.QuestionsUsed != 2 || status.QuestionsRemaining != 1 || status.QuestionsLimit != 3 {
		t.Fatalf("counts = %+v", status)
	}
	if !status.IsLocked(domain.FeatureVoice) || status.IsLocked(domain.FeatureTimer) {
		t.Fatalf("locks = %+v", status.Locked)
	}
}

func TestTrackQuestionNormalizesCamelCase(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/usage/track" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"planType": "pro_trial",
			"questionsUsed": 7,
			"trialHoursRemaining": 11.5
		}`))
	}))
	defer server.Close()

	gateway := NewAPIGateway(api.New(server.URL, time.Second, nil, nil))
	status, err := gateway.TrackQuestion(context.Background(), "fp-9")
	if err != nil {
		t.Fatalf("TrackQuestion: %v", err)
	}
	if status.Plan != domain.PlanProTrial {
		t.Fatalf("plan = %q, want pro_trial", status.Plan)
	}
	// Trial plans omit can_practice; it is implied by the plan.
	if !status.CanPractice {
		t.Fatal("trial plan should be able to practice")
	}
	if status.TrialHoursRemaining != 11.5 {
		t.Fatalf("trial hours = %v, want 11.5", status.TrialHoursRemaining)
	}
}

func TestCheckLimitUnknownPlanFallsBackToAnonymous(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plan_type": "enterprise-beta", "can_practice": false}`))
	}))
	defer server.Close()

	gateway := NewAPIGateway(api.New(server.URL, time.Second, nil, nil))
	status, err := gateway.CheckLimit(context.Background(), "fp-9")
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if status.Plan != domain.PlanAnonymous {
		t.Fatalf("plan = %q, want anonymous", status.Plan)
	}
	if status.CanPractice {
		t.Fatal("explicit can_practice=false must win")
	}
}
