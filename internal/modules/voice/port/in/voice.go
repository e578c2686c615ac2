package in

import "context"

type Usecase interface {
	StartRecording(ctx context.Context) error
	// StopAndTranscribe releases the microphone on every path before
	// returning, whether or not the upload succeeded.
	StopAndTranscribe(ctx context.Context) (string, error)
	Abort(ctx context.Context)
	Speak(ctx context.Context, text string) error
}
