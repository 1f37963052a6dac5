// Package logsink builds the monitor's leveled log output: a console
// writer for operators plus an append-only file that survives restarts.
package logsink

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr and, when path is non-empty,
// to an append-only log file. A file that cannot be opened degrades to
// console-only logging with a warning; logging failures must never take
// the control loop down.
func New(path string) (zerolog.Logger, io.Closer) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var closer io.Closer
	writer := io.Writer(console)
	if path != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file %s unavailable, logging to stderr only: %v\n", path, err)
		} else {
			writer = zerolog.MultiLevelWriter(console, file)
			closer = file
		}
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	return logger, closer
}
