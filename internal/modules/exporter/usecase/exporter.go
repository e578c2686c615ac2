package usecase

import (
	"context"

	"pmprep/internal/modules/exporter/dto"
	exporterin "pmprep/internal/modules/exporter/port/in"
	"pmprep/internal/modules/exporter/service"
)

type Interactor struct {
	svc *service.ExporterService
}

func NewInteractor(svc *service.ExporterService) exporterin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ExporterInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	return i.svc.Export(ctx, input)
}
