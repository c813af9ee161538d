// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w (stderr when nil). Console output is
// human-readable unless jsonOutput is set. Every entry carries a run_id.
func Setup(w io.Writer, verbose, jsonOutput bool) string {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := w
	if !jsonOutput {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	runID := uuid.NewString()
	log.Logger = zerolog.New(out).With().Timestamp().Str("run_id", runID).Logger()

	return runID
}
