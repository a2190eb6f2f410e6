package store

import (
	"context"
	"sync"

	"casenotes/internal/notetype/models"
	"casenotes/pkg/platform/sentinel"
)

type typeKey struct {
	parent string
	sub    string
}

// InMemory implements the note-type catalog over a map. Used in unit tests
// and local development.
type InMemory struct {
	mu    sync.RWMutex
	types map[typeKey]models.NoteType
}

// NewInMemory creates an empty in-memory catalog.
func NewInMemory() *InMemory {
	return &InMemory{types: make(map[typeKey]models.NoteType)}
}

// Put registers a note type, replacing any existing descriptor for the pair.
func (s *InMemory) Put(noteType models.NoteType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[typeKey{parent: noteType.ParentType, sub: noteType.SubType}] = noteType
}

// Resolve returns the descriptor for a type pair, or sentinel.ErrNotFound
// for unknown pairs.
func (s *InMemory) Resolve(ctx context.Context, parentType, subType string) (models.NoteType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	noteType, ok := s.types[typeKey{parent: parentType, sub: subType}]
	if !ok {
		return models.NoteType{}, sentinel.ErrNotFound
	}
	return noteType, nil
}
