package in

import (
	"context"

	exporterdto "pmprep/internal/modules/exporter/dto"
	exporterin "pmprep/internal/modules/exporter/port/in"
)

type CLIHandler struct {
	usecase exporterin.Usecase
}

func NewCLIHandler(usecase exporterin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]exporterdto.ExporterInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]exporterdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Export(ctx context.Context, exporter, format, outputDir string) (exporterdto.ExportOutput, error) {
	return h.usecase.Export(ctx, exporterdto.ExportInput{Exporter: exporter, Format: format, OutputDir: outputDir})
}
