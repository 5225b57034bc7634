// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the named level.
// Empty level means info. A nil w means stderr.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl := zerolog.InfoLevel
	if s := strings.ToLower(strings.TrimSpace(level)); s != "" {
		parsed, err := zerolog.ParseLevel(s)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: level %q: %w", level, err)
		}
		lvl = parsed
	}

	return Console(w).Level(lvl), nil
}

// Console returns an info-level console logger writing to w.
// It cannot fail, so commands use it before config is loaded.
func Console(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
