package core

import (
	"io"
	"log/slog"
)

// discardLogger is the fallback when no logger is injected.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
