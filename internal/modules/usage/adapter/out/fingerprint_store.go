package out

import (
	"context"

	usageout "pmprep/internal/modules/usage/port/out"
	"pmprep/internal/platform/localstore"
)

// FingerprintStore persists the device fingerprint so anonymous usage counts
// survive restarts.
type FingerprintStore struct {
	store *localstore.Store
}

func NewFingerprintStore(store *localstore.Store) usageout.FingerprintStore {
	return &FingerprintStore{store: store}
}

func (s *FingerprintStore) Load(ctx context.Context) (string, error) {
	return s.store.Get(ctx, localstore.KeyFingerprint)
}

func (s *FingerprintStore) Save(ctx context.Context, fingerprint string) error {
	return s.store.Set(ctx, localstore.KeyFingerprint, fingerprint)
}
