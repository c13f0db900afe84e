package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// L is the shared application logger. Setup replaces it once at boot; the
// zero value writes JSON to stderr so packages can log before Setup runs.
var L = zerolog.New(os.Stderr).With().Timestamp().Logger()

func Setup(pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
		return
	}
	L = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
