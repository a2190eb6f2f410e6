package audit

import "time"

// Action identifies the operation that produced an audit event.
type Action string

const (
	ActionSoftDelete   Action = "case_note.soft_delete"
	ActionRestore      Action = "case_note.restore"
	ActionSubjectMerge Action = "subject.merge"
	ActionSubjectPurge Action = "subject.purge"
)

// Event is emitted from domain logic to capture destructive and
// identity-changing actions. Transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    string
	SubjectID string
	Action    Action
	Detail    string
}
