package trace

// Logger receives trace events.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent use
	// and must not block for long: groups call Log on their hot path.
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// MultiLogger sends events to several loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = (*MultiLogger)(nil)
)
