package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"casenotes/internal/notetype/models"
	"casenotes/pkg/platform/sentinel"
)

// Postgres reads the note-type catalog from the case_note_type table.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Resolve(ctx context.Context, parentType, subType string) (models.NoteType, error) {
	const query = `
		SELECT parent_type, sub_type, description, sensitive
		FROM case_note_type
		WHERE parent_type = $1 AND sub_type = $2
	`
	var noteType models.NoteType
	if err := s.db.GetContext(ctx, &noteType, query, parentType, subType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NoteType{}, sentinel.ErrNotFound
		}
		return models.NoteType{}, fmt.Errorf("resolve note type: %w", err)
	}
	return noteType, nil
}
