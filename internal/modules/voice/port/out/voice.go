package out

import (
	"context"
	"io"
)

// Gateway wraps the voice endpoints.
type Gateway interface {
	// Transcribe uploads recorded audio and returns the recognized text.
	Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error)
	// Synthesize returns spoken audio for the text.
	Synthesize(ctx context.Context, text string) (audio []byte, contentType string, err error)
}

// Recorder captures microphone audio into a file. Stop must release the
// capture device on every path, including when the caller's upload fails.
type Recorder interface {
	Start(ctx context.Context, path string) error
	Stop() error
}

// Player plays an audio file.
type Player interface {
	Play(ctx context.Context, path string) error
}
