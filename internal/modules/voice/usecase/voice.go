package usecase

import (
	"context"

	voicein "pmprep/internal/modules/voice/port/in"
	"pmprep/internal/modules/voice/service"
)

type Interactor struct {
	capture *service.Capture
}

func NewInteractor(capture *service.Capture) voicein.Usecase {
	return &Interactor{capture: capture}
}

func (i *Interactor) StartRecording(ctx context.Context) error {
	return i.capture.StartRecording(ctx)
}

func (i *Interactor) StopAndTranscribe(ctx context.Context) (string, error) {
	return i.capture.StopAndTranscribe(ctx)
}

func (i *Interactor) Abort(context.Context) {
	i.capture.Abort()
}

func (i *Interactor) Speak(ctx context.Context, text string) error {
	return i.capture.Speak(ctx, text)
}
