package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mantle/pkg/log"
)

// Logger builds the CLI logger writing to out: human-readable console
// output unless LogJSON is set.
func Logger(cfg Config, out io.Writer) zerolog.Logger {
	level := log.ParseLevel(cfg.LogLevel)
	if cfg.LogJSON {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}
