package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// createNoteRequest is the payload for POST /case-notes.
type createNoteRequest struct {
	SubjectIdentifier string     `json:"subject_identifier" validate:"required"`
	LocationID        string     `json:"location_id"`
	AuthorUsername    string     `json:"author_username" validate:"required"`
	AuthorUserID      string     `json:"author_user_id"`
	AuthorName        string     `json:"author_name"`
	ParentType        string     `json:"parent_type" validate:"required"`
	SubType           string     `json:"sub_type" validate:"required"`
	OccurredAt        *time.Time `json:"occurred_at"`
	NoteText          string     `json:"note_text" validate:"required"`
}

// amendNoteRequest is the payload for POST /case-notes/{id}/amendments.
type amendNoteRequest struct {
	NoteText       string `json:"note_text" validate:"required"`
	AuthorUsername string `json:"author_username" validate:"required"`
	AuthorUserID   string `json:"author_user_id"`
	AuthorName     string `json:"author_name"`
}

// mergeSubjectRequest is the payload for PUT /subjects/merge.
type mergeSubjectRequest struct {
	FromSubjectIdentifier string `json:"from_subject_identifier" validate:"required"`
	ToSubjectIdentifier   string `json:"to_subject_identifier" validate:"required,nefield=FromSubjectIdentifier"`
}
