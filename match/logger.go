package match

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger swaps the package-level logger. Intended for wiring a process's
// shared logger in at startup, not for per-call configuration.
func SetLogger(l *slog.Logger) {
	logger = l
}
