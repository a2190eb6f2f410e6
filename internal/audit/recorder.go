package audit

import (
	"context"
	"time"
)

// Recorder captures structured audit events. It is append-only and writes
// through a Store so tests can swap sinks easily.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Emit appends one event, stamping the time when the caller did not.
func (r *Recorder) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return r.store.Append(ctx, event)
}

// List returns the recorded events for a subject.
func (r *Recorder) List(ctx context.Context, subjectID string) ([]Event, error) {
	return r.store.ListBySubject(ctx, subjectID)
}
