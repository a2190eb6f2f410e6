package note

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"casenotes/internal/casenote/models"
	"casenotes/pkg/platform/sentinel"
)

// InMemory implements the note store over maps. It mirrors the Postgres
// store's semantics exactly: soft-delete-aware reads, delete-flag-agnostic
// bulk operations, and atomic negative event-id allocation.
type InMemory struct {
	mu         sync.RWMutex
	notes      map[uuid.UUID]*models.CaseNote
	eventSeq   atomic.Int64
	insertions []uuid.UUID // creation order, for deterministic iteration
}

// NewInMemory creates an empty in-memory note store.
func NewInMemory() *InMemory {
	return &InMemory{notes: make(map[uuid.UUID]*models.CaseNote)}
}

// Create persists a new note and any initial amendments, assigning the
// event id from an atomic countdown so ids stay unique and negative under
// concurrent creation.
func (s *InMemory) Create(ctx context.Context, note *models.CaseNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notes[note.ID]; exists {
		return sentinel.ErrConflict
	}
	note.EventID = -s.eventSeq.Add(1)

	stored := cloneNote(note)
	s.notes[note.ID] = stored
	s.insertions = append(s.insertions, note.ID)
	return nil
}

// FindByID returns a visible note with its amendments in canonical order.
// Soft-deleted notes are reported as not found.
func (s *InMemory) FindByID(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.notes[noteID]
	if !ok || stored.SoftDeleted {
		return nil, sentinel.ErrNotFound
	}
	return cloneNote(stored), nil
}

// FindAll returns the visible notes matching the filter, ordered by
// modification time. The filter must already be normalized.
func (s *InMemory) FindAll(ctx context.Context, filter models.Filter) ([]*models.CaseNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.CaseNote
	for _, noteID := range s.insertions {
		stored, ok := s.notes[noteID]
		if !ok || stored.SoftDeleted {
			continue
		}
		if filter.Matches(stored) {
			matched = append(matched, cloneNote(stored))
		}
	}
	sortByModified(matched, filter.Sort)
	return paginate(matched, filter.Page), nil
}

// FindModifiedSince returns visible notes for any of the given parent types
// modified strictly after the bound, oldest modification first. Used by
// incremental sync clients.
func (s *InMemory) FindModifiedSince(ctx context.Context, parentTypes []string, after time.Time, page models.Page) ([]*models.CaseNote, error) {
	wanted := make(map[string]struct{}, len(parentTypes))
	for _, parentType := range parentTypes {
		wanted[parentType] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.CaseNote
	for _, noteID := range s.insertions {
		stored, ok := s.notes[noteID]
		if !ok || stored.SoftDeleted {
			continue
		}
		if _, ok := wanted[stored.ParentType]; !ok {
			continue
		}
		if !stored.ModifiedAt.After(after) {
			continue
		}
		matched = append(matched, cloneNote(stored))
	}
	sortByModified(matched, models.SortAscending)
	return paginate(matched, page), nil
}

// AppendAmendment adds an amendment to a visible note, assigning the next
// sequence number and advancing the note's modification time.
func (s *InMemory) AppendAmendment(ctx context.Context, noteID uuid.UUID, amendment *models.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.notes[noteID]
	if !ok || stored.SoftDeleted {
		return sentinel.ErrNotFound
	}

	sequence := 1
	for _, existing := range stored.Amendments {
		if existing.Sequence >= sequence {
			sequence = existing.Sequence + 1
		}
	}
	amendment.CaseNoteID = noteID
	amendment.Sequence = sequence

	stored.Amendments = append(stored.Amendments, *amendment)
	// Canonical order even when a caller backdates CreatedAt, matching the
	// ORDER BY the SQL store applies on read.
	sort.SliceStable(stored.Amendments, func(i, j int) bool {
		return models.AmendmentBefore(stored.Amendments[i], stored.Amendments[j])
	})
	stored.Touch(amendment.CreatedAt)
	return nil
}

// SetSoftDeleted flips the note's own visibility flag. The amendments' flags
// are deliberately untouched. Returns sentinel.ErrNotFound when no row is in
// the opposite state.
func (s *InMemory) SetSoftDeleted(ctx context.Context, noteID uuid.UUID, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.notes[noteID]
	if !ok || stored.SoftDeleted == deleted {
		return sentinel.ErrNotFound
	}
	stored.SoftDeleted = deleted
	return nil
}

// UpdateSubjectID rewrites the subject identifier on every note tagged from,
// soft-deleted or not, and returns the number of notes changed.
func (s *InMemory) UpdateSubjectID(ctx context.Context, from, to string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, stored := range s.notes {
		if stored.SubjectID == from {
			stored.SubjectID = to
			affected++
		}
	}
	return affected, nil
}

// DeleteAmendmentsBySubjectID hard-deletes the amendments of every note for
// a subject, soft-deleted or not. Must run before DeleteNotesBySubjectID.
func (s *InMemory) DeleteAmendmentsBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, stored := range s.notes {
		if stored.SubjectID == subjectID {
			deleted += int64(len(stored.Amendments))
			stored.Amendments = nil
		}
	}
	return deleted, nil
}

// DeleteNotesBySubjectID hard-deletes every note for a subject, soft-deleted
// or not. Amendments must already be purged; a remaining amendment is an
// orphan, mirroring the foreign-key failure the relational store would raise.
func (s *InMemory) DeleteNotesBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for noteID, stored := range s.notes {
		if stored.SubjectID != subjectID {
			continue
		}
		if len(stored.Amendments) > 0 {
			return deleted, sentinel.ErrConflict
		}
		delete(s.notes, noteID)
		deleted++
	}
	if deleted > 0 {
		s.compactInsertions()
	}
	return deleted, nil
}

// AmendmentCountBySubjectID counts stored amendments for a subject across
// all notes, soft-deleted or not. Test and operational support.
func (s *InMemory) AmendmentCountBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, stored := range s.notes {
		if stored.SubjectID == subjectID {
			count += int64(len(stored.Amendments))
		}
	}
	return count, nil
}

// RawByID returns a note regardless of its soft-delete flag. Administrative
// and test support; ordinary reads go through FindByID.
func (s *InMemory) RawByID(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.notes[noteID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneNote(stored), nil
}

func (s *InMemory) compactInsertions() {
	kept := s.insertions[:0]
	for _, noteID := range s.insertions {
		if _, ok := s.notes[noteID]; ok {
			kept = append(kept, noteID)
		}
	}
	s.insertions = kept
}

func cloneNote(note *models.CaseNote) *models.CaseNote {
	clone := *note
	clone.Amendments = make([]models.Amendment, len(note.Amendments))
	copy(clone.Amendments, note.Amendments)
	return &clone
}

func sortByModified(notes []*models.CaseNote, direction models.SortDirection) {
	sort.SliceStable(notes, func(i, j int) bool {
		if direction == models.SortDescending {
			return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
		}
		return notes[i].ModifiedAt.Before(notes[j].ModifiedAt)
	})
}

func paginate(notes []*models.CaseNote, page models.Page) []*models.CaseNote {
	if page.Offset > 0 {
		if page.Offset >= len(notes) {
			return nil
		}
		notes = notes[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(notes) {
		notes = notes[:page.Limit]
	}
	return notes
}
