package trace

import (
	"time"

	"github.com/google/uuid"
)

// Recorder stamps events of one component with time and session before
// handing them to a Logger. A nil *Recorder, or one without a Logger,
// records nothing.
type Recorder struct {
	logger    Logger
	session   string
	component Component
}

// NewRecorder returns a recorder for component with a fresh session ID.
func NewRecorder(logger Logger, component Component) *Recorder {
	return &Recorder{
		logger:    logger,
		session:   uuid.NewString(),
		component: component,
	}
}

// Enabled reports whether events are recorded.
func (r *Recorder) Enabled() bool {
	return r != nil && r.logger != nil
}

// SessionID returns the session ID stamped on every event.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.session
}

// Record completes and logs event. A non-nil err overrides the category.
func (r *Recorder) Record(event Event, err error) {
	if !r.Enabled() {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.SessionID = r.session
	event.Component = r.component
	if err != nil {
		event.Category = CategoryError
		event.Error = err.Error()
	}
	r.logger.Log(event)
}
