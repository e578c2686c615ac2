package debuglog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Logger records non-critical background failures (detailed-score fetch, model
// answer, export) that are deliberately never shown to the user.
type Logger interface {
	Printf(format string, args ...any)
}

type fileLogger struct {
	inner *log.Logger
	file  *os.File
}

// Open appends to the debug log file, creating it on first use.
func Open(path string) (Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	l := &fileLogger{inner: log.New(file, "", log.LstdFlags|log.LUTC), file: file}
	return l, file.Close, nil
}

func (l *fileLogger) Printf(format string, args ...any) {
	l.inner.Printf(format, args...)
}

type Nop struct{}

func (Nop) Printf(string, ...any) {}
