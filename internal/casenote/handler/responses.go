package handler

import (
	"time"

	"github.com/google/uuid"

	"casenotes/internal/casenote/models"
)

// noteResponse is the JSON shape of one case note.
type noteResponse struct {
	ID                uuid.UUID           `json:"id"`
	SubjectIdentifier string              `json:"subject_identifier"`
	LocationID        string              `json:"location_id,omitempty"`
	AuthorUsername    string              `json:"author_username"`
	AuthorUserID      string              `json:"author_user_id,omitempty"`
	AuthorName        string              `json:"author_name,omitempty"`
	ParentType        string              `json:"parent_type"`
	SubType           string              `json:"sub_type"`
	OccurredAt        time.Time           `json:"occurred_at"`
	NoteText          string              `json:"note_text"`
	CreatedAt         time.Time           `json:"created_at"`
	ModifiedAt        time.Time           `json:"modified_at"`
	EventID           int64               `json:"event_id"`
	Amendments        []amendmentResponse `json:"amendments"`
}

type amendmentResponse struct {
	ID             uuid.UUID `json:"id"`
	NoteText       string    `json:"note_text"`
	AuthorUsername string    `json:"author_username"`
	AuthorUserID   string    `json:"author_user_id,omitempty"`
	AuthorName     string    `json:"author_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type noteListResponse struct {
	CaseNotes []noteResponse `json:"case_notes"`
}

type bulkResponse struct {
	Affected int64 `json:"affected"`
}

func toNoteResponse(note *models.CaseNote) noteResponse {
	amendments := make([]amendmentResponse, 0, len(note.Amendments))
	for _, amendment := range note.Amendments {
		amendments = append(amendments, toAmendmentResponse(amendment))
	}
	return noteResponse{
		ID:                note.ID,
		SubjectIdentifier: note.SubjectID,
		LocationID:        note.LocationID,
		AuthorUsername:    note.AuthorUsername,
		AuthorUserID:      note.AuthorUserID,
		AuthorName:        note.AuthorName,
		ParentType:        note.ParentType,
		SubType:           note.SubType,
		OccurredAt:        note.OccurredAt,
		NoteText:          note.NoteText,
		CreatedAt:         note.CreatedAt,
		ModifiedAt:        note.ModifiedAt,
		EventID:           note.EventID,
		Amendments:        amendments,
	}
}

func toAmendmentResponse(amendment models.Amendment) amendmentResponse {
	return amendmentResponse{
		ID:             amendment.ID,
		NoteText:       amendment.NoteText,
		AuthorUsername: amendment.AuthorUsername,
		AuthorUserID:   amendment.AuthorUserID,
		AuthorName:     amendment.AuthorName,
		CreatedAt:      amendment.CreatedAt,
	}
}

func toNoteListResponse(notes []*models.CaseNote) noteListResponse {
	out := noteListResponse{CaseNotes: make([]noteResponse, 0, len(notes))}
	for _, note := range notes {
		out.CaseNotes = append(out.CaseNotes, toNoteResponse(note))
	}
	return out
}
