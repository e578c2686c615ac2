package service

import (
	"context"
	"sync"

	"pmprep/internal/modules/usage/domain"
	usageout "pmprep/internal/modules/usage/port/out"
	"pmprep/internal/platform/debuglog"
)

// Tracker owns the usage snapshot. It computes the device fingerprint at most
// once per client lifetime and is the only component that writes Status.
type Tracker struct {
	gateway usageout.Gateway
	store   usageout.FingerprintStore
	compute func() string
	log     debuglog.Logger

	mu          sync.Mutex
	fingerprint string
	last        *domain.Status
}

func NewTracker(gateway usageout.Gateway, store usageout.FingerprintStore, compute func() string, log debuglog.Logger) *Tracker {
	if log == nil {
		log = debuglog.Nop{}
	}
	return &Tracker{gateway: gateway, store: store, compute: compute, log: log}
}

// EnsureFingerprint is idempotent and never fails: persisted value first,
// then a freshly computed hash (persisted best-effort), the compute function
// itself falls back to a random value.
func (t *Tracker) EnsureFingerprint(ctx context.Context) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fingerprint != "" {
		return t.fingerprint
	}

	if t.store != nil {
		if fp, err := t.store.Load(ctx); err == nil && fp != "" {
			t.fingerprint = fp
			return fp
		} else if err != nil {
			t.log.Printf("fingerprint load: %v", err)
		}
	}

	fp := t.compute()
	t.fingerprint = fp
	if t.store != nil {
		if err := t.store.Save(ctx, fp); err != nil {
			t.log.Printf("fingerprint save: %v", err)
		}
	}
	return fp
}

// CheckLimit refreshes the snapshot from the server. The error propagates so
// callers can report degradation, but a defensive fallback status is always
// returned alongside it.
func (t *Tracker) CheckLimit(ctx context.Context) (domain.Status, error) {
	fp := t.EnsureFingerprint(ctx)
	status, err := t.gateway.CheckLimit(ctx, fp)
	if err != nil {
		return domain.DefensiveFallback(), err
	}
	t.setLast(status)
	return status, nil
}

// TrackQuestion increments server-side usage after a successful answer
// submission. It is decoupled from scoring: the caller fires it regardless of
// what happens to the score request.
func (t *Tracker) TrackQuestion(ctx context.Context) (domain.Status, error) {
	fp := t.EnsureFingerprint(ctx)
	status, err := t.gateway.TrackQuestion(ctx, fp)
	if err != nil {
		return domain.DefensiveFallback(), err
	}
	t.setLast(status)
	return status, nil
}

// Snapshot returns the last server-confirmed status, if any.
func (t *Tracker) Snapshot() (domain.Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return domain.Status{}, false
	}
	return *t.last, true
}

// Invalidate drops the cached status so the next check asks the server
// again. Called when auth state changes and the plan may differ.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	t.last = nil
	t.mu.Unlock()
}

func (t *Tracker) setLast(status domain.Status) {
	t.mu.Lock()
	t.last = &status
	t.mu.Unlock()
}
