package trace

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at debug level, errors at
// warn level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("component", event.Component.String()),
		slog.String("category", event.Category.String()),
		slog.String("op", event.Op),
	}
	if event.ElementID != 0 {
		attrs = append(attrs, slog.Uint64("element_id", event.ElementID))
	}
	if event.ElementName != "" {
		attrs = append(attrs, slog.String("element", event.ElementName))
	}
	if event.Version != 0 {
		attrs = append(attrs, slog.Uint64("version", event.Version))
	}
	if event.Elements != 0 {
		attrs = append(attrs, slog.Int("elements", event.Elements))
	}
	if event.Duration != 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	if event.DataLost {
		attrs = append(attrs, slog.Bool("data_lost", true))
	}
	if event.Consistent {
		attrs = append(attrs, slog.Bool("consistent", true))
	}

	level := slog.LevelDebug
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, "transfer", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
