package cli

import (
	"log/slog"
	"time"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func logWarning(w model.Warning) {
	slog.Warn(w.Message, "org", w.Org, "status", w.StatusCode)
}

// logDone logs msg with the elapsed time since start.
func logDone(msg string, start time.Time) {
	slog.Info(msg, "elapsed", time.Since(start).Round(time.Millisecond))
}
