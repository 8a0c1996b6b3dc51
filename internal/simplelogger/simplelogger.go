package simplelogger

import (
	"io"
	"os"
	"sync"
)

// EnvLogFile names a log file used when no path is configured.
const EnvLogFile = "LOCPICK_LOG_FILE"

// Open returns a writer that appends to path. Each Write opens, writes, and closes the file under a process-wide mutex, so concurrent writers do not
// interleave within a single process and the file never stays open while a terminal UI runs.
//
// If path is empty, the LOCPICK_LOG_FILE environment variable is used. If both are empty, the writer discards everything. Writes to a path that can't be
// opened as a file are silently dropped.
func Open(path string) io.Writer {
	if path == "" {
		path = os.Getenv(EnvLogFile)
	}
	if path == "" {
		return io.Discard
	}
	return &fileWriter{path: path}
}

var mu sync.Mutex

type fileWriter struct {
	path string
}

// Write appends p to the file. It always reports len(p) written so a logging handler never fails because the log file is unavailable.
func (w *fileWriter) Write(p []byte) (int, error) {
	// Serialize open/write/close to reduce interleaving within a single process.
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return len(p), nil
	}
	defer f.Close()

	_, _ = f.Write(p)
	return len(p), nil
}
