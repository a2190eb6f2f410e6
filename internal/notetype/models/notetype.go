package models

// NoteType describes one (parent type, sub type) pair from the catalog.
// Sensitive types are restricted at the transport layer; the storage core
// only carries the flag through.
type NoteType struct {
	ParentType  string `json:"parent_type" db:"parent_type"`
	SubType     string `json:"sub_type" db:"sub_type"`
	Description string `json:"description" db:"description"`
	Sensitive   bool   `json:"sensitive" db:"sensitive"`
}
