package out

import (
	"context"

	"pmprep/internal/modules/exporter/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Export(ctx context.Context, manifest domain.Manifest, req domain.ExportRequest) (domain.ExportResult, error)
}
