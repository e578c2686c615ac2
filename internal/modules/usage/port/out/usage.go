package out

import (
	"context"

	"pmprep/internal/modules/usage/domain"
)

// Gateway talks to the usage-limit endpoints, keyed by device fingerprint.
type Gateway interface {
	CheckLimit(ctx context.Context, fingerprint string) (domain.Status, error)
	TrackQuestion(ctx context.Context, fingerprint string) (domain.Status, error)
}

// FingerprintStore persists the computed fingerprint across runs.
type FingerprintStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, fingerprint string) error
}
