package in

import (
	"context"

	voicein "pmprep/internal/modules/voice/port/in"
)

type CLIHandler struct {
	usecase voicein.Usecase
}

func NewCLIHandler(usecase voicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartRecording(ctx context.Context) error {
	return h.usecase.StartRecording(ctx)
}

func (h CLIHandler) StopAndTranscribe(ctx context.Context) (string, error) {
	return h.usecase.StopAndTranscribe(ctx)
}

func (h CLIHandler) Speak(ctx context.Context, text string) error {
	return h.usecase.Speak(ctx, text)
}
