package log

import (
	"io"

	"github.com/rs/zerolog"

	gcerrors "github.com/fieldvision/groundcover/pkg/errors"
)

// UseZerologWarnings routes groundcover warnings (ConvergenceWarning,
// UndefinedMetricWarning, ...) through a zerolog logger writing to w.
// Warning types that implement zerolog.LogObjectMarshaler are emitted
// with their structured fields.
func UseZerologWarnings(w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	gcerrors.SetWarningHandler(func(warning error) {
		event := logger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.Object("warning", marshaler).Msg("groundcover warning")
			return
		}
		event.Err(warning).Msg("groundcover warning")
	})
	return logger
}
