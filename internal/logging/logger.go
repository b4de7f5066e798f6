// Package logging builds the zerolog logger shared by the HTTP layer,
// the database bootstrap and the services.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Level    string
	Format   string // "json" or "console"
	Location *time.Location
	Output   io.Writer
}

// New returns a logger writing JSON lines (or console output) with
// timestamps rendered in opts.Location. Unknown levels fall back to info.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return zerolog.New(out).
		Level(level).
		Hook(timestampHook{loc: loc}).
		With().
		Str("service", "medtracker").
		Logger()
}

type timestampHook struct {
	loc *time.Location
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}
