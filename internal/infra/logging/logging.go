package logging

import (
	"log/slog"
	"os"
)

// SetupJSON replaces slog's default logger with a JSON handler writing to
// stdout at the given level.
func SetupJSON(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
