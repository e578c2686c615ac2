package in

import (
	"context"

	"pmprep/internal/modules/usage/dto"
)

type Usecase interface {
	// Fingerprint never fails; see the tracker service for the fallback chain.
	Fingerprint(ctx context.Context) string
	// Check returns the live status. On gateway failure it returns the
	// defensive fallback status together with the error so callers can both
	// keep the product usable and report degradation.
	Check(ctx context.Context) (dto.StatusOutput, error)
	// Track increments server-side usage after a submitted answer.
	Track(ctx context.Context) (dto.StatusOutput, error)
	// Snapshot returns the last known status without touching the network.
	Snapshot(ctx context.Context) (dto.StatusOutput, bool)
}
