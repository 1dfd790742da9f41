package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New arma el logger global del bot. Nivel por string ("debug", "info"...),
// default info si viene cualquier cosa.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
