package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "casenotes/pkg/domain-errors"
)

// CaseNote is the aggregate root for one note about a supervised person and
// its append-only amendments.
//
// Invariants:
//   - EventID is unique across all notes and strictly negative; it is
//     assigned once at creation by the store and never reassigned.
//   - Amendments are totally ordered by (CreatedAt, Sequence) ascending;
//     Sequence is a per-note monotonic insertion counter, so first/last are
//     deterministic even when timestamps collide.
//   - ModifiedAt never decreases; appending an amendment bumps it.
//   - SoftDeleted hides the note from ordinary reads but never propagates to
//     the amendments' own flags.
//   - SubjectID changes only through the bulk merge operation.
type CaseNote struct {
	ID             uuid.UUID   `json:"id" db:"case_note_id"`
	SubjectID      string      `json:"subject_identifier" db:"subject_identifier"`
	LocationID     string      `json:"location_id" db:"location_id"`
	AuthorUsername string      `json:"author_username" db:"author_username"`
	AuthorUserID   string      `json:"author_user_id" db:"author_user_id"`
	AuthorName     string      `json:"author_name" db:"author_name"`
	ParentType     string      `json:"parent_type" db:"parent_type"`
	SubType        string      `json:"sub_type" db:"sub_type"`
	OccurredAt     time.Time   `json:"occurred_at" db:"occurred_at"`
	NoteText       string      `json:"note_text" db:"note_text"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	ModifiedAt     time.Time   `json:"modified_at" db:"modified_at"`
	CreateUserID   string      `json:"create_user_id" db:"create_user_id"`
	EventID        int64       `json:"event_id" db:"event_id"`
	SoftDeleted    bool        `json:"-" db:"soft_deleted"`
	Amendments     []Amendment `json:"amendments" db:"-"`
}

// Amendment is an immutable addendum to a case note. It has no lifecycle of
// its own outside the owning note, but its SoftDeleted flag is independent
// of the parent's.
type Amendment struct {
	ID             uuid.UUID `json:"id" db:"amendment_id"`
	CaseNoteID     uuid.UUID `json:"-" db:"case_note_id"`
	NoteText       string    `json:"note_text" db:"note_text"`
	AuthorUsername string    `json:"author_username" db:"author_username"`
	AuthorUserID   string    `json:"author_user_id" db:"author_user_id"`
	AuthorName     string    `json:"author_name" db:"author_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Sequence       int       `json:"-" db:"sequence"`
	SoftDeleted    bool      `json:"-" db:"soft_deleted"`
}

// NewCaseNoteParams carries the caller-supplied fields for a new note.
type NewCaseNoteParams struct {
	SubjectID      string
	LocationID     string
	AuthorUsername string
	AuthorUserID   string
	AuthorName     string
	ParentType     string
	SubType        string
	OccurredAt     time.Time
	NoteText       string
	CreateUserID   string
}

// NewCaseNote constructs a note with zero amendments. The type pair is
// validated against the catalog at the service layer; EventID is assigned
// by the store at persist time.
func NewCaseNote(params NewCaseNoteParams, now time.Time) (*CaseNote, error) {
	if strings.TrimSpace(params.SubjectID) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "subject identifier cannot be blank")
	}
	if strings.TrimSpace(params.NoteText) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "note text cannot be blank")
	}
	if params.CreateUserID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "creating user id cannot be empty")
	}
	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &CaseNote{
		ID:             uuid.New(),
		SubjectID:      params.SubjectID,
		LocationID:     params.LocationID,
		AuthorUsername: params.AuthorUsername,
		AuthorUserID:   params.AuthorUserID,
		AuthorName:     params.AuthorName,
		ParentType:     params.ParentType,
		SubType:        params.SubType,
		OccurredAt:     occurredAt,
		NoteText:       params.NoteText,
		CreatedAt:      now,
		ModifiedAt:     now,
		CreateUserID:   params.CreateUserID,
	}, nil
}

// AddAmendment appends an amendment and bumps the note's modification time.
// Existing amendments are never touched; there is no maximum count. The
// sequence continues from the current last amendment so insertion order
// survives identical timestamps.
func (n *CaseNote) AddAmendment(text, authorUsername, authorName, authorUserID string, now time.Time) *Amendment {
	amendment := Amendment{
		ID:             uuid.New(),
		CaseNoteID:     n.ID,
		NoteText:       text,
		AuthorUsername: authorUsername,
		AuthorUserID:   authorUserID,
		AuthorName:     authorName,
		CreatedAt:      now,
		Sequence:       n.nextSequence(),
	}
	n.Amendments = append(n.Amendments, amendment)
	n.Touch(now)
	return &n.Amendments[len(n.Amendments)-1]
}

func (n *CaseNote) nextSequence() int {
	if len(n.Amendments) == 0 {
		return 1
	}
	return n.Amendments[len(n.Amendments)-1].Sequence + 1
}

// FirstAmendment returns the earliest amendment, or nil if there are none.
// The slice is maintained in (CreatedAt, Sequence) order, so this is O(1).
func (n *CaseNote) FirstAmendment() *Amendment {
	if len(n.Amendments) == 0 {
		return nil
	}
	return &n.Amendments[0]
}

// LastAmendment returns the most recent amendment, or nil if there are none.
func (n *CaseNote) LastAmendment() *Amendment {
	if len(n.Amendments) == 0 {
		return nil
	}
	return &n.Amendments[len(n.Amendments)-1]
}

// Touch advances the modification timestamp, never moving it backwards.
func (n *CaseNote) Touch(now time.Time) {
	if now.After(n.ModifiedAt) {
		n.ModifiedAt = now
	}
}

// SoftDelete hides the note from ordinary reads. The amendments' own flags
// are left alone: deletion visibility of the two is decoupled.
func (n *CaseNote) SoftDelete() {
	n.SoftDeleted = true
}

// Restore makes a soft-deleted note visible again.
func (n *CaseNote) Restore() {
	n.SoftDeleted = false
}

// AmendmentBefore reports whether a sorts strictly before b under the
// (CreatedAt, Sequence) total order. Stores use it to keep amendment slices
// in canonical order.
func AmendmentBefore(a, b Amendment) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.Sequence < b.Sequence
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
