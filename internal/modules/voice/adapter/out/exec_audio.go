package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	voiceout "pmprep/internal/modules/voice/port/out"
)

// ExecRecorder shells out to a capture command (arecord by default). The
// process holds the microphone, so Stop always terminates it, whatever the
// caller does with the recording afterwards.
type ExecRecorder struct {
	argv []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecRecorder takes the capture command with its flags; the output path
// is appended as the final argument.
func NewExecRecorder(argv []string) *ExecRecorder {
	return &ExecRecorder{argv: argv}
}

func (r *ExecRecorder) Start(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return fmt.Errorf("recording already in progress")
	}
	args := append(append([]string{}, r.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start recorder %s: %w", r.argv[0], err)
	}
	r.cmd = cmd
	return nil
}

// Stop terminates the capture process and waits for it to exit, releasing
// the device. Safe to call when nothing is recording.
func (r *ExecRecorder) Stop() error {
	r.mu.Lock()
	cmd := r.cmd
	r.cmd = nil
	r.mu.Unlock()
	if cmd == nil {
		return nil
	}
	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			return fmt.Errorf("stop recorder: %w", err)
		}
	}
	// The recorder exits by signal; that is the expected outcome, not an
	// error worth reporting.
	_ = cmd.Wait()
	return nil
}

// ExecPlayer shells out to a playback command (aplay by default).
type ExecPlayer struct {
	argv []string
}

func NewExecPlayer(argv []string) voiceout.Player {
	return &ExecPlayer{argv: argv}
}

func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio with %s: %w", p.argv[0], err)
	}
	return nil
}
