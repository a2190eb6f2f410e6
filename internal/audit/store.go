package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
}

// InMemory keeps audit events in a slice. Test and development sink.
type InMemory struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemory) ListBySubject(ctx context.Context, subjectID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.SubjectID == subjectID {
			out = append(out, event)
		}
	}
	return out, nil
}

// SlogStore writes audit events to the structured log. The operational
// audit trail ships with the rest of the logs.
type SlogStore struct {
	logger *slog.Logger
}

func NewSlogStore(logger *slog.Logger) *SlogStore {
	return &SlogStore{logger: logger}
}

func (s *SlogStore) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"action", event.Action,
		"subject_identifier", event.SubjectID,
		"user_id", event.UserID,
		"detail", event.Detail,
		"at", event.Timestamp,
	)
	return nil
}

func (s *SlogStore) ListBySubject(ctx context.Context, subjectID string) ([]Event, error) {
	return nil, nil
}
