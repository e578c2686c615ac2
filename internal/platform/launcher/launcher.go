package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Launcher opens a target (checkout URL, receipt) with the OS default handler.
type Launcher interface {
	Open(ctx context.Context, target string) error
}

type OSLauncher struct{}

func NewOSLauncher() Launcher {
	return &OSLauncher{}
}

func (l *OSLauncher) Open(_ context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	default:
		return fmt.Errorf("external open is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open external target: %w", err)
	}
	return nil
}
