// Package logger implements the single append-only log sink: process-wide
// log state passed by reference as an explicit writer, never a
// package-level global.
package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger is a mutex-guarded append-only writer producing
// "HH:MM:SS.mmm [runID] <msg>" lines. The mutex exists because the
// capture goroutine and the consumer side both log occasionally;
// everything else in the system is single-threaded.
type Logger struct {
	mu    sync.Mutex
	f     *os.File
	runID string
}

// Open truncates (or creates) the file at path and returns a Logger
// writing to it, stamped with a fresh run identifier so log lines from
// separate invocations writing into the same directory stay distinguishable.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("logger: open %s: %w", path, err)
	}
	return &Logger{f: f, runID: uuid.NewString()[:8]}, nil
}

// Printf writes one "HH:MM:SS.mmm [runID] <msg>" line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "%s [%s] %s\n", time.Now().Format("15:04:05.000"), l.runID, msg)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}
