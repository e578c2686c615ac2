package service

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
)

type fakeVoiceGateway struct {
	text          string
	transcribeErr error
	audio         []byte
}

func (f *fakeVoiceGateway) Transcribe(_ context.Context, _ string, audio io.Reader) (string, error) {
	io.Copy(io.Discard, audio)
	return f.text, f.transcribeErr
}

func (f *fakeVoiceGateway) Synthesize(context.Context, string) ([]byte, string, error) {
	return f.audio, "audio/mpeg", nil
}

type fakeRecorder struct {
	path   string
	starts int
	stops  int
}

func (f *fakeRecorder) Start(_ context.Context, path string) error {
	f.starts++
	f.path = path
	// Stand in for the capture process writing audio.
	return os.WriteFile(path, []byte("RIFFdata"), 0o644)
}

func (f *fakeRecorder) Stop() error {
	f.stops++
	return nil
}

type fakePlayer struct {
	played []string
}

func (f *fakePlayer) Play(_ context.Context, path string) error {
	f.played = append(f.played, path)
	return nil
}

func TestStopAndTranscribeCleansUp(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	capture := NewCapture(&fakeVoiceGateway{text: "estimate the market"}, recorder, &fakePlayer{}, nil)
	ctx := context.Background()

	if err := capture.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	text, err := capture.StopAndTranscribe(ctx)
	if err != nil {
		t.Fatalf("StopAndTranscribe: %v", err)
	}
	if text != "estimate the market" {
		t.Fatalf("text = %q", text)
	}
	if recorder.stops != 1 {
		t.Fatalf("recorder stopped %d times, want 1", recorder.stops)
	}
	if _, err := os.Stat(recorder.path); !os.IsNotExist(err) {
		t.Fatal("recording file must be removed after transcription")
	}
}

func TestStopReleasesRecorderEvenWhenUploadFails(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{}
	gateway := &fakeVoiceGateway{transcribeErr: errors.New("upload failed")}
	capture := NewCapture(gateway, recorder, &fakePlayer{}, nil)
	ctx := context.Background()

	if err := capture.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if _, err := capture.StopAndTranscribe(ctx); err == nil {
		t.Fatal("upload failure must propagate")
	}
	if recorder.stops != 1 {
		t.Fatalf("recorder stopped %d times, want 1 even on failure", recorder.stops)
	}
	if _, err := os.Stat(recorder.path); !os.IsNotExist(err) {
		t.Fatal("recording file must be removed even on failure")
	}

	// The device is free for the next recording.
	if err := capture.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording after failure: %v", err)
	}
	capture.Abort()
}

func TestSecondStartRejectedWhileRecording(t *testing.T) {
	t.Parallel()

	capture := NewCapture(&fakeVoiceGateway{}, &fakeRecorder{}, &fakePlayer{}, nil)
	ctx := context.Background()

	if err := capture.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := capture.StartRecording(ctx); err == nil {
		t.Fatal("a second concurrent recording must be rejected")
	}
	capture.Abort()
}

func TestSpeakPlaysAndRemovesTempFile(t *testing.T) {
	t.Parallel()

	player := &fakePlayer{}
	capture := NewCapture(&fakeVoiceGateway{audio: []byte("mp3data")}, &fakeRecorder{}, player, nil)

	if err := capture.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if len(player.played) != 1 {
		t.Fatalf("played %d files, want 1", len(player.played))
	}
	if _, err := os.Stat(player.played[0]); !os.IsNotExist(err) {
		t.Fatal("playback file must be removed after playing")
	}
}
