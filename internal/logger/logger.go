// Package logger configures the zerolog logger shared by all commands.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger writing to w. Debug events are only
// emitted when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: noColor(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Init installs a stderr logger as the global and context default.
func Init(verbose bool) zerolog.Logger {
	l := New(os.Stderr, verbose)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

func noColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	fi, err := f.Stat()
	return err != nil || fi.Mode()&os.ModeCharDevice == 0
}
