package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"casenotes/internal/audit"
	"casenotes/internal/casenote/events"
	"casenotes/internal/casenote/metrics"
	"casenotes/internal/casenote/models"
	dErrors "casenotes/pkg/domain-errors"
	"casenotes/pkg/platform/sentinel"
	"casenotes/pkg/requestcontext"
)

// Service orchestrates the case-note aggregate lifecycle: creation against
// the type catalog, append-only amendments, soft-delete visibility, and the
// delete-flag-agnostic bulk operations.
type Service struct {
	notes     NoteStore
	catalog   TypeCatalog
	publisher EventPublisher
	tx        StoreTx
	auditor   Auditor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New constructs a Service.
func New(notes NoteStore, catalog TypeCatalog, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.publisher == nil {
		cfg.publisher = events.Noop{}
	}
	if cfg.tx == nil {
		cfg.tx = noopTx{}
	}
	return &Service{
		notes:     notes,
		catalog:   catalog,
		publisher: cfg.publisher,
		tx:        cfg.tx,
		auditor:   cfg.auditor,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}
}

// CreateParams carries the caller-supplied fields for a new case note. The
// creating user comes from the request context, never from the payload.
type CreateParams struct {
	SubjectID      string
	LocationID     string
	AuthorUsername string
	AuthorUserID   string
	AuthorName     string
	ParentType     string
	SubType        string
	OccurredAt     time.Time
	NoteText       string
}

// Create validates the type pair against the catalog, resolves the caller
// identity for create_user_id, and persists a note with zero amendments.
// The store assigns the strictly-negative event id during the transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.CaseNote, error) {
	start := time.Now()

	user := requestcontext.CurrentUser(ctx)
	if user.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no authenticated caller for case note creation")
	}

	if _, err := s.catalog.Resolve(ctx, params.ParentType, params.SubType); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown case note type %s/%s", params.ParentType, params.SubType)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve case note type")
	}

	now := requestcontext.Now(ctx)
	note, err := models.NewCaseNote(models.NewCaseNoteParams{
		SubjectID:      strings.TrimSpace(params.SubjectID),
		LocationID:     params.LocationID,
		AuthorUsername: params.AuthorUsername,
		AuthorUserID:   params.AuthorUserID,
		AuthorName:     params.AuthorName,
		ParentType:     params.ParentType,
		SubType:        params.SubType,
		OccurredAt:     params.OccurredAt,
		NoteText:       params.NoteText,
		CreateUserID:   user.ID,
	}, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.notes.Create(txCtx, note)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Atomic event id allocation makes collisions structurally
			// impossible; observing one is an invariant violation.
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "case note identifier collision")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist case note")
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeCreated,
		EventID:    note.EventID,
		CaseNoteID: note.ID,
		SubjectID:  note.SubjectID,
		ParentType: note.ParentType,
		SubType:    note.SubType,
		OccurredAt: note.OccurredAt,
		RecordedAt: now,
	})
	if s.metrics != nil {
		s.metrics.NotesCreated.Inc()
		s.metrics.ObserveCreate(start)
	}
	return note, nil
}

// AmendmentParams carries the fields for one appended amendment.
type AmendmentParams struct {
	NoteText       string
	AuthorUsername string
	AuthorName     string
	AuthorUserID   string
}

// AddAmendment appends an amendment to a visible note. Existing amendments
// are never modified; the parent's modification time advances with the
// append, inside one transaction.
func (s *Service) AddAmendment(ctx context.Context, noteID uuid.UUID, params AmendmentParams) (*models.Amendment, error) {
	if requestcontext.UserID(ctx) == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no authenticated caller for case note amendment")
	}

	if strings.TrimSpace(params.NoteText) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "amendment text cannot be empty")
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, wrapNoteErr(err)
	}

	now := requestcontext.Now(ctx)
	amendment := note.AddAmendment(params.NoteText, params.AuthorUsername, params.AuthorName, params.AuthorUserID, now)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.notes.AppendAmendment(txCtx, noteID, amendment)
	})
	if err != nil {
		return nil, wrapNoteErr(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeAmended,
		EventID:    note.EventID,
		CaseNoteID: note.ID,
		SubjectID:  note.SubjectID,
		ParentType: note.ParentType,
		SubType:    note.SubType,
		OccurredAt: note.OccurredAt,
		RecordedAt: now,
	})
	if s.metrics != nil {
		s.metrics.AmendmentsAdded.Inc()
	}
	return amendment, nil
}

// Get returns a visible note with its amendments in canonical order. A
// soft-deleted note is reported as not found, indistinguishable from a
// missing one.
func (s *Service) Get(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, wrapNoteErr(err)
	}
	return note, nil
}

// Search returns visible notes matching the filter, ordered by modification
// time. Blank criteria are wildcards, so an all-blank filter returns every
// visible note.
func (s *Service) Search(ctx context.Context, filter models.Filter) ([]*models.CaseNote, error) {
	start := time.Now()
	notes, err := s.notes.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search case notes")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(start)
	}
	return notes, nil
}

// ModifiedSince returns visible notes for the given parent types modified
// strictly after the bound, oldest first. Incremental sync clients page
// through this.
func (s *Service) ModifiedSince(ctx context.Context, parentTypes []string, after time.Time, page models.Page) ([]*models.CaseNote, error) {
	if len(parentTypes) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one parent type is required")
	}
	notes, err := s.notes.FindModifiedSince(ctx, parentTypes, after, page)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load modified case notes")
	}
	return notes, nil
}

// SoftDelete hides a note from ordinary reads. The amendments' own
// soft-delete flags are untouched: visibility of the two is decoupled.
func (s *Service) SoftDelete(ctx context.Context, noteID uuid.UUID) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return wrapNoteErr(err)
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.notes.SetSoftDeleted(txCtx, noteID, true)
	})
	if err != nil {
		return wrapNoteErr(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeSoftDeleted,
		EventID:    note.EventID,
		CaseNoteID: note.ID,
		SubjectID:  note.SubjectID,
		ParentType: note.ParentType,
		SubType:    note.SubType,
		OccurredAt: note.OccurredAt,
		RecordedAt: requestcontext.Now(ctx),
	})
	s.recordAudit(ctx, audit.ActionSoftDelete, note.SubjectID, "case note "+noteID.String())
	return nil
}

// Restore makes a soft-deleted note visible again.
func (s *Service) Restore(ctx context.Context, noteID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.notes.SetSoftDeleted(txCtx, noteID, false)
	})
	if err != nil {
		return wrapNoteErr(err)
	}

	if note, err := s.notes.FindByID(ctx, noteID); err == nil {
		s.publish(ctx, events.Event{
			Type:       events.TypeRestored,
			EventID:    note.EventID,
			CaseNoteID: note.ID,
			SubjectID:  note.SubjectID,
			ParentType: note.ParentType,
			SubType:    note.SubType,
			OccurredAt: note.OccurredAt,
			RecordedAt: requestcontext.Now(ctx),
		})
		s.recordAudit(ctx, audit.ActionRestore, note.SubjectID, "case note "+noteID.String())
	}
	return nil
}

// MergeSubjectID rewrites the subject identifier on every note tagged from,
// soft-deleted or not, in one atomic statement. Amendments hold no subject
// reference and are untouched. Returns the number of notes changed.
func (s *Service) MergeSubjectID(ctx context.Context, from, to string) (int64, error) {
	start := time.Now()

	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "merge requires both subject identifiers")
	}
	if from == to {
		return 0, dErrors.New(dErrors.CodeValidation, "merge source and target are identical")
	}

	var affected int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		affected, txErr = s.notes.UpdateSubjectID(txCtx, from, to)
		return txErr
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to merge subject identifier")
	}

	s.logger.InfoContext(ctx, "merged subject identifier",
		"from", from,
		"to", to,
		"notes_affected", affected,
	)
	s.recordAudit(ctx, audit.ActionSubjectMerge, from, fmt.Sprintf("merged into %s, %d notes", to, affected))
	if s.metrics != nil {
		s.metrics.SubjectsMerged.Inc()
		s.metrics.ObserveBulkOp(start)
	}
	return affected, nil
}

// PurgeBySubjectID hard-deletes every note for a subject, soft-deleted or
// not. Amendments are not cascade-deleted, so they are purged first and the
// two deletes share one transaction: no orphaned amendments, no partial
// purge. Returns the number of notes deleted.
func (s *Service) PurgeBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	start := time.Now()

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "subject identifier is required")
	}

	var notesDeleted, amendmentsDeleted int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		amendmentsDeleted, txErr = s.notes.DeleteAmendmentsBySubjectID(txCtx, subjectID)
		if txErr != nil {
			return txErr
		}
		notesDeleted, txErr = s.notes.DeleteNotesBySubjectID(txCtx, subjectID)
		return txErr
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge case notes")
	}

	s.logger.InfoContext(ctx, "purged case notes for subject",
		"subject_identifier", subjectID,
		"notes_deleted", notesDeleted,
		"amendments_deleted", amendmentsDeleted,
	)
	s.recordAudit(ctx, audit.ActionSubjectPurge, subjectID,
		fmt.Sprintf("%d notes, %d amendments", notesDeleted, amendmentsDeleted))
	if s.metrics != nil {
		m := s.metrics
		m.NotesPurged.Add(float64(notesDeleted))
		m.ObserveBulkOp(start)
	}
	return notesDeleted, nil
}

// publish emits a lifecycle event without failing the business operation:
// the store commit already happened, and consumers reconcile through the
// modified-since sync path.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish case note event",
			"event_type", event.Type,
			"event_id", event.EventID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.EventPublishFails.Inc()
		}
	}
}

// recordAudit appends to the audit trail without failing the operation,
// like event publication: the commit already happened.
func (s *Service) recordAudit(ctx context.Context, action audit.Action, subjectID, detail string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		SubjectID: subjectID,
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record audit event",
			"action", action,
			"error", err,
		)
	}
}

func wrapNoteErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "case note not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "case note state conflict")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "case note store failure")
	}
}
