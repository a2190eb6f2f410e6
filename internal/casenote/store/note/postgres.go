package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"casenotes/internal/casenote/models"
	"casenotes/pkg/platform/sentinel"
	txcontext "casenotes/pkg/platform/tx"
)

const noteColumns = `case_note_id, subject_identifier, location_id, author_username,
	author_user_id, author_name, parent_type, sub_type, occurred_at, note_text,
	created_at, modified_at, create_user_id, event_id, soft_deleted`

const amendmentColumns = `amendment_id, case_note_id, note_text, author_username,
	author_user_id, author_name, created_at, sequence, soft_deleted`

// Postgres persists case notes and their amendments in PostgreSQL.
//
// Every method runs against the transaction carried in the context when one
// is present, so the service layer can sequence multiple store calls
// atomically (amendment purge before note purge, for instance).
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed note store.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) execer(ctx context.Context) sqlx.ExtContext {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Create inserts a note and any initial amendments. The event id comes from
// the case_note_event_id sequence, negated, so allocation is atomic and the
// value strictly negative; the assigned id is written back onto the note.
func (s *Postgres) Create(ctx context.Context, note *models.CaseNote) error {
	const query = `
		INSERT INTO case_note (
			case_note_id, subject_identifier, location_id, author_username,
			author_user_id, author_name, parent_type, sub_type, occurred_at,
			note_text, created_at, modified_at, create_user_id, event_id, soft_deleted
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			-nextval('case_note_event_id'), $14)
		RETURNING event_id
	`
	execer := s.execer(ctx)
	err := execer.QueryRowxContext(ctx, query,
		note.ID,
		note.SubjectID,
		note.LocationID,
		note.AuthorUsername,
		note.AuthorUserID,
		note.AuthorName,
		note.ParentType,
		note.SubType,
		note.OccurredAt,
		note.NoteText,
		note.CreatedAt,
		note.ModifiedAt,
		note.CreateUserID,
		note.SoftDeleted,
	).Scan(&note.EventID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create case note: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create case note: %w", err)
	}

	for i := range note.Amendments {
		if err := s.insertAmendment(ctx, execer, &note.Amendments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) insertAmendment(ctx context.Context, execer sqlx.ExtContext, amendment *models.Amendment) error {
	const query = `
		INSERT INTO case_note_amendment (
			amendment_id, case_note_id, note_text, author_username,
			author_user_id, author_name, created_at, sequence, soft_deleted
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(sequence), 0) + 1 FROM case_note_amendment WHERE case_note_id = $2),
			$8)
		RETURNING sequence
	`
	err := execer.QueryRowxContext(ctx, query,
		amendment.ID,
		amendment.CaseNoteID,
		amendment.NoteText,
		amendment.AuthorUsername,
		amendment.AuthorUserID,
		amendment.AuthorName,
		amendment.CreatedAt,
		amendment.SoftDeleted,
	).Scan(&amendment.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert amendment: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert amendment: %w", err)
	}
	return nil
}

// FindByID returns a visible note with its amendments in (created_at,
// sequence) order. Soft-deleted notes are reported as not found.
func (s *Postgres) FindByID(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error) {
	query := `SELECT ` + noteColumns + ` FROM case_note WHERE case_note_id = $1 AND NOT soft_deleted`

	var note models.CaseNote
	if err := sqlx.GetContext(ctx, s.execer(ctx), &note, query, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find case note by id: %w", err)
	}
	if err := s.loadAmendments(ctx, []*models.CaseNote{&note}); err != nil {
		return nil, err
	}
	return &note, nil
}

// FindAll returns visible notes matching the normalized filter, ordered by
// modification time. Present criteria become predicates; absent ones are
// wildcards. The soft-delete predicate is always applied.
func (s *Postgres) FindAll(ctx context.Context, filter models.Filter) ([]*models.CaseNote, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(noteColumns)
	sb.From("case_note")

	where := []string{sb.Equal("soft_deleted", false)}
	if filter.ParentType != "" {
		where = append(where, sb.Equal("parent_type", filter.ParentType))
	}
	if filter.SubType != "" {
		where = append(where, sb.Equal("sub_type", filter.SubType))
	}
	if filter.AuthorUsername != "" {
		where = append(where, sb.Equal("author_username", filter.AuthorUsername))
	}
	if filter.LocationID != "" {
		where = append(where, sb.Equal("location_id", filter.LocationID))
	}
	if filter.SubjectID != "" {
		where = append(where, sb.Equal("subject_identifier", filter.SubjectID))
	}
	if filter.ModifiedAfter != nil {
		where = append(where, sb.GreaterThan("modified_at", *filter.ModifiedAfter))
	}
	sb.Where(where...)

	if filter.Sort == models.SortDescending {
		sb.OrderBy("modified_at DESC")
	} else {
		sb.OrderBy("modified_at ASC")
	}
	if filter.Page.Limit > 0 {
		sb.Limit(filter.Page.Limit)
	}
	if filter.Page.Offset > 0 {
		sb.Offset(filter.Page.Offset)
	}

	query, args := sb.Build()
	return s.selectNotes(ctx, query, args...)
}

// FindModifiedSince returns visible notes for any of the given parent types
// modified strictly after the bound, oldest modification first.
func (s *Postgres) FindModifiedSince(ctx context.Context, parentTypes []string, after time.Time, page models.Page) ([]*models.CaseNote, error) {
	query := `SELECT ` + noteColumns + `
		FROM case_note
		WHERE parent_type = ANY($1) AND modified_at > $2 AND NOT soft_deleted
		ORDER BY modified_at ASC`
	args := []any{pq.Array(parentTypes), after}
	if page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, page.Limit)
	}
	if page.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, page.Offset)
	}
	return s.selectNotes(ctx, query, args...)
}

func (s *Postgres) selectNotes(ctx context.Context, query string, args ...any) ([]*models.CaseNote, error) {
	var notes []*models.CaseNote
	if err := sqlx.SelectContext(ctx, s.execer(ctx), &notes, query, args...); err != nil {
		return nil, fmt.Errorf("select case notes: %w", err)
	}
	if err := s.loadAmendments(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Postgres) loadAmendments(ctx context.Context, notes []*models.CaseNote) error {
	if len(notes) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.CaseNote, len(notes))
	noteIDs := make([]uuid.UUID, 0, len(notes))
	for _, note := range notes {
		byID[note.ID] = note
		noteIDs = append(noteIDs, note.ID)
	}

	query := `SELECT ` + amendmentColumns + `
		FROM case_note_amendment
		WHERE case_note_id = ANY($1)
		ORDER BY created_at ASC, sequence ASC`
	var amendments []models.Amendment
	if err := sqlx.SelectContext(ctx, s.execer(ctx), &amendments, query, pq.Array(noteIDs)); err != nil {
		return fmt.Errorf("load amendments: %w", err)
	}
	for _, amendment := range amendments {
		note := byID[amendment.CaseNoteID]
		note.Amendments = append(note.Amendments, amendment)
	}
	return nil
}

// AppendAmendment adds an amendment to a visible note. The note row is
// updated first, which takes its row lock and serializes concurrent
// appenders so sequence assignment stays deterministic.
func (s *Postgres) AppendAmendment(ctx context.Context, noteID uuid.UUID, amendment *models.Amendment) error {
	execer := s.execer(ctx)

	const touch = `
		UPDATE case_note
		SET modified_at = GREATEST(modified_at, $2)
		WHERE case_note_id = $1 AND NOT soft_deleted
	`
	result, err := execer.ExecContext(ctx, touch, noteID, amendment.CreatedAt)
	if err != nil {
		return fmt.Errorf("touch case note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch case note: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}

	amendment.CaseNoteID = noteID
	return s.insertAmendment(ctx, execer, amendment)
}

// SetSoftDeleted flips the note's own visibility flag without touching the
// amendments' flags. Returns sentinel.ErrNotFound when no row is in the
// opposite state.
func (s *Postgres) SetSoftDeleted(ctx context.Context, noteID uuid.UUID, deleted bool) error {
	const query = `
		UPDATE case_note
		SET soft_deleted = $2
		WHERE case_note_id = $1 AND soft_deleted = NOT $2
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, noteID, deleted)
	if err != nil {
		return fmt.Errorf("set soft delete flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set soft delete flag: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// UpdateSubjectID rewrites the subject identifier on every note tagged from.
// No soft-delete predicate: this is an administrative path and must reach
// hidden rows too.
func (s *Postgres) UpdateSubjectID(ctx context.Context, from, to string) (int64, error) {
	const query = `UPDATE case_note SET subject_identifier = $2 WHERE subject_identifier = $1`
	result, err := s.execer(ctx).ExecContext(ctx, query, from, to)
	if err != nil {
		return 0, fmt.Errorf("merge subject identifier: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("merge subject identifier: %w", err)
	}
	return affected, nil
}

// DeleteAmendmentsBySubjectID hard-deletes the amendments of every note for
// a subject, soft-deleted or not. Amendments are not cascade-deleted with
// their notes, so callers must run this before DeleteNotesBySubjectID,
// inside the same transaction.
func (s *Postgres) DeleteAmendmentsBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	const query = `
		DELETE FROM case_note_amendment
		WHERE case_note_id IN (SELECT case_note_id FROM case_note WHERE subject_identifier = $1)
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, subjectID)
	if err != nil {
		return 0, fmt.Errorf("purge amendments by subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge amendments by subject: %w", err)
	}
	return affected, nil
}

// DeleteNotesBySubjectID hard-deletes every note for a subject, soft-deleted
// or not. Fails on the foreign key if amendments were not purged first.
func (s *Postgres) DeleteNotesBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	const query = `DELETE FROM case_note WHERE subject_identifier = $1`
	result, err := s.execer(ctx).ExecContext(ctx, query, subjectID)
	if err != nil {
		return 0, fmt.Errorf("purge case notes by subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge case notes by subject: %w", err)
	}
	return affected, nil
}

// AmendmentCountBySubjectID counts stored amendments for a subject across
// all notes, soft-deleted or not.
func (s *Postgres) AmendmentCountBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM case_note_amendment a
		JOIN case_note n ON n.case_note_id = a.case_note_id
		WHERE n.subject_identifier = $1
	`
	var count int64
	if err := sqlx.GetContext(ctx, s.execer(ctx), &count, query, subjectID); err != nil {
		return 0, fmt.Errorf("count amendments by subject: %w", err)
	}
	return count, nil
}

// RawByID returns a note regardless of its soft-delete flag. Administrative
// and test support; ordinary reads go through FindByID.
func (s *Postgres) RawByID(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error) {
	query := `SELECT ` + noteColumns + ` FROM case_note WHERE case_note_id = $1`

	var note models.CaseNote
	if err := sqlx.GetContext(ctx, s.execer(ctx), &note, query, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find case note ignoring soft delete: %w", err)
	}
	if err := s.loadAmendments(ctx, []*models.CaseNote{&note}); err != nil {
		return nil, err
	}
	return &note, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
