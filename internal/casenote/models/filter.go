package models

import (
	"strings"
	"time"
)

// SortDirection orders search results by modification time.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Filter is a sparse set of search criteria. A string criterion that is
// empty or all-whitespace is treated as absent (wildcard), never as an
// empty-string equality match; present criteria are AND-composed. The
// soft-delete predicate is always applied on top, by the store.
type Filter struct {
	ParentType     string
	SubType        string
	AuthorUsername string
	LocationID     string
	SubjectID      string
	ModifiedAfter  *time.Time
	Sort           SortDirection
	Page           Page
}

// Page bounds a result set. A zero Limit means unpaginated.
type Page struct {
	Limit  int
	Offset int
}

// Normalize trims criteria and blanks out whitespace-only values so they
// compose as wildcards. Defaults the sort direction to ascending.
func (f Filter) Normalize() Filter {
	f.ParentType = strings.TrimSpace(f.ParentType)
	f.SubType = strings.TrimSpace(f.SubType)
	f.AuthorUsername = strings.TrimSpace(f.AuthorUsername)
	f.LocationID = strings.TrimSpace(f.LocationID)
	f.SubjectID = strings.TrimSpace(f.SubjectID)
	if f.Sort != SortDescending {
		f.Sort = SortAscending
	}
	return f
}

// Matches reports whether a note satisfies every present criterion. This is
// the single definition of the filter semantics: the in-memory store applies
// it directly and the Postgres store compiles the equivalent SQL predicates.
// Callers must Normalize first. Soft-delete visibility is the store's
// concern, not the filter's.
func (f Filter) Matches(note *CaseNote) bool {
	if f.ParentType != "" && note.ParentType != f.ParentType {
		return false
	}
	if f.SubType != "" && note.SubType != f.SubType {
		return false
	}
	if f.AuthorUsername != "" && note.AuthorUsername != f.AuthorUsername {
		return false
	}
	if f.LocationID != "" && note.LocationID != f.LocationID {
		return false
	}
	if f.SubjectID != "" && note.SubjectID != f.SubjectID {
		return false
	}
	if f.ModifiedAfter != nil && !note.ModifiedAt.After(*f.ModifiedAfter) {
		return false
	}
	return true
}
