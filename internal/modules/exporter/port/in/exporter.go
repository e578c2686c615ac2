package in

import (
	"context"

	"pmprep/internal/modules/exporter/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ExporterInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// Export serializes the practice history and hands it to the named
	// exporter binary.
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
