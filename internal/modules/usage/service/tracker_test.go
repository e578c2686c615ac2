package service

import (
	"context"
	"errors"
	"testing"

	"pmprep/internal/modules/usage/domain"
)

type fakeGateway struct {
	status domain.Status
	err    error
	checks int
	tracks int
	lastFP string
}

func (f *fakeGateway) CheckLimit(_ context.Context, fp string) (domain.Status, error) {
	f.checks++
	f.lastFP = fp
	return f.status, f.err
}

func (f *fakeGateway) TrackQuestion(_ context.Context, fp string) (domain.Status, error) {
	f.tracks++
	f.lastFP = fp
	return f.status, f.err
}

type fakeFPStore struct {
	value   string
	loadErr error
	saves   []string
}

func (f *fakeFPStore) Load(context.Context) (string, error) { return f.value, f.loadErr }

func (f *fakeFPStore) Save(_ context.Context, fp string) error {
	f.saves = append(f.saves, fp)
	return nil
}

func TestEnsureFingerprintComputesAtMostOnce(t *testing.T) {
	t.Parallel()

	computes := 0
	store := &fakeFPStore{}
	tracker := NewTracker(&fakeGateway{}, store, func() string {
		computes++
		return "fp-computed"
	}, nil)

	ctx := context.Background()
	first := tracker.EnsureFingerprint(ctx)
	second := tracker.EnsureFingerprint(ctx)

	if first != "fp-computed" || second != "fp-computed" {
		t.Fatalf("fingerprints = %q, %q, want fp-computed twice", first, second)
	}
	if computes != 1 {
		t.Fatalf("compute called %d times, want 1", computes)
	}
	if len(store.saves) != 1 || store.saves[0] != "fp-computed" {
		t.Fatalf("saves = %v, want one save of fp-computed", store.saves)
	}
}

func TestEnsureFingerprintPrefersStoredValue(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(&fakeGateway{}, &fakeFPStore{value: "fp-stored"}, func() string {
		t.Fatal("compute should not run when a stored fingerprint exists")
		return ""
	}, nil)

	if got := tracker.EnsureFingerprint(context.Background()); got != "fp-stored" {
		t.Fatalf("fingerprint = %q, want fp-stored", got)
	}
}

func TestEnsureFingerprintSurvivesStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeFPStore{loadErr: errors.New("disk gone")}
	tracker := NewTracker(&fakeGateway{}, store, func() string { return "fp-fresh" }, nil)

	if got := tracker.EnsureFingerprint(context.Background()); got != "fp-fresh" {
		t.Fatalf("fingerprint = %q, want fp-fresh", got)
	}
}

func TestCheckLimitReturnsServerStatus(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{status: domain.Status{
		Plan:               domain.PlanFree,
		CanPractice:        true,
		QuestionsUsed:      2,
		QuestionsRemaining: 1,
		QuestionsLimit:     3,
	}}
	tracker := NewTracker(gateway, &fakeFPStore{value: "fp-1"}, nil, nil)

	status, err := tracker.CheckLimit(context.Background())
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if status.Plan != domain.PlanFree || status.QuestionsRemaining != 1 {
		t.Fatalf("status = %+v", status)
	}
	if gateway.lastFP != "fp-1" {
		t.Fatalf("gateway fingerprint = %q, want fp-1", gateway.lastFP)
	}

	cached, ok := tracker.Snapshot()
	if !ok || cached.Plan != domain.PlanFree {
		t.Fatalf("snapshot = %+v ok=%v, want cached free-plan status", cached, ok)
	}
}

func TestCheckLimitFallsBackOnGatewayOutage(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{err: errors.New("connection refused")}
	tracker := NewTracker(gateway, &fakeFPStore{value: "fp-1"}, nil, nil)

	status, err := tracker.CheckLimit(context.Background())
	if err == nil {
		t.Fatal("expected gateway error to propagate")
	}
	want := domain.DefensiveFallback()
	if status.Plan != want.Plan || status.CanPractice != want.CanPractice ||
		status.QuestionsRemaining != want.QuestionsRemaining || status.QuestionsLimit != want.QuestionsLimit {
		t.Fatalf("status = %+v, want defensive fallback %+v", status, want)
	}
	if _, ok := tracker.Snapshot(); ok {
		t.Fatal("fallback status must not be cached as server-confirmed")
	}
}

func TestTrackQuestionFallsBackOnGatewayOutage(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{err: errors.New("boom")}
	tracker := NewTracker(gateway, &fakeFPStore{value: "fp-1"}, nil, nil)

	status, err := tracker.TrackQuestion(context.Background())
	if err == nil {
		t.Fatal("expected gateway error to propagate")
	}
	if status.Plan != domain.PlanAnonymous || !status.CanPractice {
		t.Fatalf("status = %+v, want anonymous fallback that can practice", status)
	}
}
