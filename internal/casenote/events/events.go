// Package events defines the case-note lifecycle events published for
// downstream consumers (sync clients, audit pipelines). The negative event
// id on the note is the correlation key across systems.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type discriminates case-note lifecycle events.
type Type string

const (
	TypeCreated     Type = "case_note.created"
	TypeAmended     Type = "case_note.amended"
	TypeSoftDeleted Type = "case_note.soft_deleted"
	TypeRestored    Type = "case_note.restored"
)

// Event is one case-note lifecycle occurrence.
type Event struct {
	Type       Type      `json:"type"`
	EventID    int64     `json:"event_id"`
	CaseNoteID uuid.UUID `json:"case_note_id"`
	SubjectID  string    `json:"subject_identifier"`
	ParentType string    `json:"parent_type"`
	SubType    string    `json:"sub_type"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}
