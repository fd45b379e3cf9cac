package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a JSON logger on stderr. Stdout is reserved for protocol output
// (MCP stdio transport, JSONL results).
func New(level string) zerolog.Logger {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
