package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"casenotes/internal/audit"
	"casenotes/internal/casenote/events"
	"casenotes/internal/casenote/metrics"
	"casenotes/internal/casenote/models"
	notetypemodels "casenotes/internal/notetype/models"
)

// NoteStore is the persistence gateway for case notes. Read methods apply
// the soft-delete policy; the bulk methods (UpdateSubjectID, the two
// Delete*BySubjectID) deliberately do not — they are a distinct path so the
// visibility predicate can never leak into destructive work.
type NoteStore interface {
	Create(ctx context.Context, note *models.CaseNote) error
	FindByID(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error)
	FindAll(ctx context.Context, filter models.Filter) ([]*models.CaseNote, error)
	FindModifiedSince(ctx context.Context, parentTypes []string, after time.Time, page models.Page) ([]*models.CaseNote, error)
	AppendAmendment(ctx context.Context, noteID uuid.UUID, amendment *models.Amendment) error
	SetSoftDeleted(ctx context.Context, noteID uuid.UUID, deleted bool) error
	UpdateSubjectID(ctx context.Context, from, to string) (int64, error)
	DeleteAmendmentsBySubjectID(ctx context.Context, subjectID string) (int64, error)
	DeleteNotesBySubjectID(ctx context.Context, subjectID string) (int64, error)
}

// TypeCatalog resolves (parent type, sub type) pairs; unknown pairs reject
// note creation.
type TypeCatalog interface {
	Resolve(ctx context.Context, parentType, subType string) (notetypemodels.NoteType, error)
}

// EventPublisher emits case-note lifecycle events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Auditor records destructive and identity-changing operations.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// StoreTx runs fn atomically: every store call made with the callback's
// context joins one transaction, so either all of its effects are visible
// or none are.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// noopTx satisfies StoreTx for stores that are atomic per call (in-memory).
type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type serviceConfig struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher EventPublisher
	tx        StoreTx
	auditor   Auditor
}

// Option configures the Service.
type Option func(*serviceConfig)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) {
		cfg.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) {
		cfg.metrics = m
	}
}

// WithEventPublisher sets the case-note event publisher.
func WithEventPublisher(publisher EventPublisher) Option {
	return func(cfg *serviceConfig) {
		cfg.publisher = publisher
	}
}

// WithAuditor sets the audit trail recorder for destructive operations.
func WithAuditor(auditor Auditor) Option {
	return func(cfg *serviceConfig) {
		cfg.auditor = auditor
	}
}

// WithStoreTx sets the transaction runner. Required for stores whose
// operations must be composed atomically (Postgres); in-memory stores can
// run without one.
func WithStoreTx(tx StoreTx) Option {
	return func(cfg *serviceConfig) {
		cfg.tx = tx
	}
}
