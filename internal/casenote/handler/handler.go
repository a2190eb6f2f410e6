package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"casenotes/internal/casenote/models"
	"casenotes/internal/casenote/service"
	dErrors "casenotes/pkg/domain-errors"
	"casenotes/pkg/platform/httputil"
	platformstrings "casenotes/pkg/platform/strings"
	"casenotes/pkg/requestcontext"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

// Service is the case-note operations surface the handler depends on.
type Service interface {
	Create(ctx context.Context, params service.CreateParams) (*models.CaseNote, error)
	AddAmendment(ctx context.Context, noteID uuid.UUID, params service.AmendmentParams) (*models.Amendment, error)
	Get(ctx context.Context, noteID uuid.UUID) (*models.CaseNote, error)
	Search(ctx context.Context, filter models.Filter) ([]*models.CaseNote, error)
	ModifiedSince(ctx context.Context, parentTypes []string, after time.Time, page models.Page) ([]*models.CaseNote, error)
	SoftDelete(ctx context.Context, noteID uuid.UUID) error
	Restore(ctx context.Context, noteID uuid.UUID) error
	MergeSubjectID(ctx context.Context, from, to string) (int64, error)
	PurgeBySubjectID(ctx context.Context, subjectID string) (int64, error)
}

// Handler is the thin HTTP layer over the case-note service.
type Handler struct {
	logger  *slog.Logger
	service Service
	auth    func(http.Handler) http.Handler
}

// New creates a case-note Handler. The auth middleware is applied to every
// route registered here.
func New(service Service, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, auth: auth}
}

// Register mounts the case-note routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(h.auth)
		}

		r.Route("/case-notes", func(r chi.Router) {
			r.Post("/", h.handleCreate)
			r.Get("/", h.handleSearch)
			r.Get("/sync", h.handleModifiedSince)
			r.Get("/{noteID}", h.handleGet)
			r.Delete("/{noteID}", h.handleSoftDelete)
			r.Post("/{noteID}/restore", h.handleRestore)
			r.Post("/{noteID}/amendments", h.handleAddAmendment)
		})

		r.Put("/subjects/merge", h.handleMergeSubject)
		r.Delete("/subjects/{subjectID}/case-notes", h.handlePurgeSubject)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}

	params := service.CreateParams{
		SubjectID:      req.SubjectIdentifier,
		LocationID:     req.LocationID,
		AuthorUsername: req.AuthorUsername,
		AuthorUserID:   req.AuthorUserID,
		AuthorName:     req.AuthorName,
		ParentType:     req.ParentType,
		SubType:        req.SubType,
		NoteText:       req.NoteText,
	}
	if req.OccurredAt != nil {
		params.OccurredAt = *req.OccurredAt
	}

	note, err := h.service.Create(ctx, params)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create case note")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	noteID, ok := h.noteID(w, r)
	if !ok {
		return
	}
	note, err := h.service.Get(r.Context(), noteID)
	if err != nil {
		h.writeServiceError(r.Context(), w, err, "failed to load case note")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNoteResponse(note))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := models.Filter{
		ParentType:     query.Get("parent_type"),
		SubType:        query.Get("sub_type"),
		AuthorUsername: query.Get("author_username"),
		LocationID:     query.Get("location_id"),
		SubjectID:      query.Get("subject_identifier"),
		Sort:           models.SortDirection(query.Get("sort")),
		Page:           pageFromQuery(query.Get("limit"), query.Get("offset")),
	}
	if raw := query.Get("modified_after"); raw != "" {
		after, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "modified_after must be RFC 3339"))
			return
		}
		filter.ModifiedAfter = &after
	}

	notes, err := h.service.Search(ctx, filter)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to search case notes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNoteListResponse(notes))
}

func (h *Handler) handleModifiedSince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	raw := query.Get("modified_after")
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "modified_after is required"))
		return
	}
	after, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "modified_after must be RFC 3339"))
		return
	}

	parentTypes := platformstrings.DedupeAndTrim(strings.Split(query.Get("parent_types"), ","))

	notes, err := h.service.ModifiedSince(ctx, parentTypes, after, pageFromQuery(query.Get("limit"), query.Get("offset")))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load modified case notes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNoteListResponse(notes))
}

func (h *Handler) handleAddAmendment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	noteID, ok := h.noteID(w, r)
	if !ok {
		return
	}

	var req amendNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}

	amendment, err := h.service.AddAmendment(ctx, noteID, service.AmendmentParams{
		NoteText:       req.NoteText,
		AuthorUsername: req.AuthorUsername,
		AuthorName:     req.AuthorName,
		AuthorUserID:   req.AuthorUserID,
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to amend case note")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAmendmentResponse(*amendment))
}

func (h *Handler) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	noteID, ok := h.noteID(w, r)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(r.Context(), noteID); err != nil {
		h.writeServiceError(r.Context(), w, err, "failed to delete case note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	noteID, ok := h.noteID(w, r)
	if !ok {
		return
	}
	if err := h.service.Restore(r.Context(), noteID); err != nil {
		h.writeServiceError(r.Context(), w, err, "failed to restore case note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMergeSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mergeSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}

	affected, err := h.service.MergeSubjectID(ctx, req.FromSubjectIdentifier, req.ToSubjectIdentifier)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to merge subject identifier")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkResponse{Affected: affected})
}

func (h *Handler) handlePurgeSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "subjectID")

	deleted, err := h.service.PurgeBySubjectID(ctx, subjectID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to purge case notes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkResponse{Affected: deleted})
}

func (h *Handler) noteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "note id must be a UUID"))
		return uuid.Nil, false
	}
	return noteID, true
}

// writeServiceError logs unexpected failures and renders the domain error.
// Client-caused codes pass through without noise in the logs.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func pageFromQuery(rawLimit, rawOffset string) models.Page {
	page := models.Page{Limit: defaultPageLimit}
	if rawLimit != "" {
		if limit, err := strconv.Atoi(rawLimit); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	if rawOffset != "" {
		if offset, err := strconv.Atoi(rawOffset); err == nil && offset > 0 {
			page.Offset = offset
		}
	}
	return page
}
