package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	voiceout "pmprep/internal/modules/voice/port/out"
	"pmprep/internal/platform/debuglog"
)

// Capture coordinates one recording at a time. The recorder is stopped and
// the temp file removed on every exit path; a failed transcription upload
// never leaves the microphone held or a stray file behind.
type Capture struct {
	gateway  voiceout.Gateway
	recorder voiceout.Recorder
	player   voiceout.Player
	log      debuglog.Logger

	mu        sync.Mutex
	recording string
}

func NewCapture(gateway voiceout.Gateway, recorder voiceout.Recorder, player voiceout.Player, log debuglog.Logger) *Capture {
	if log == nil {
		log = debuglog.Nop{}
	}
	return &Capture{gateway: gateway, recorder: recorder, player: player, log: log}
}

func (c *Capture) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recording != "" {
		return fmt.Errorf("recording already in progress")
	}
	tmp, err := os.CreateTemp("", "pmprep-rec-*.wav")
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close recording file: %w", err)
	}
	if err := c.recorder.Start(ctx, path); err != nil {
		os.Remove(path)
		return err
	}
	c.recording = path
	return nil
}

// StopAndTranscribe stops the recorder, uploads the audio, and returns the
// recognized text. Cleanup runs regardless of the upload outcome.
func (c *Capture) StopAndTranscribe(ctx context.Context) (string, error) {
	c.mu.Lock()
	path := c.recording
	c.recording = ""
	c.mu.Unlock()
	if path == "" {
		return "", fmt.Errorf("no recording in progress")
	}

	stopErr := c.recorder.Stop()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			c.log.Printf("remove recording %s: %v", path, err)
		}
	}()
	if stopErr != nil {
		return "", stopErr
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	return c.gateway.Transcribe(ctx, filepath.Base(path), file)
}

// Abort cancels an in-progress recording, discarding the audio.
func (c *Capture) Abort() {
	c.mu.Lock()
	path := c.recording
	c.recording = ""
	c.mu.Unlock()
	if path == "" {
		return
	}
	if err := c.recorder.Stop(); err != nil {
		c.log.Printf("abort recording: %v", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.Printf("remove recording %s: %v", path, err)
	}
}

// Speak synthesizes the text and plays it. The audio file is temporary and
// removed after playback.
func (c *Capture) Speak(ctx context.Context, text string) error {
	audio, _, err := c.gateway.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp("", "pmprep-tts-*.audio")
	if err != nil {
		return fmt.Errorf("create playback file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			c.log.Printf("remove playback file: %v", err)
		}
	}()
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("write playback file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close playback file: %w", err)
	}
	return c.player.Play(ctx, tmp.Name())
}
