// Package logging configures the zerolog logger perch writes to. Output goes
// to a file so it never interleaves with the TUI or streamed answers.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// LogFileName is the name of the log file inside the logs directory
const LogFileName = "perch.log"

// Setup points the global zerolog logger at dir/logs/perch.log with the given
// level. The returned closer should be called on exit. If the file cannot be
// opened, logging is disabled and the error is returned.
func Setup(dir, level string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		Disable()
		return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		Disable()
		return nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	Configure(f, lvl)
	return f, nil
}

// Configure installs a console-format logger writing to w.
func Configure(w io.Writer, lvl zerolog.Level) {
	zerolog.SetGlobalLevel(lvl)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
}

// Disable discards all log output.
func Disable() {
	zlog.Logger = zerolog.Nop()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
