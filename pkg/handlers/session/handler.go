package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/license-atlas/pkg/adapters"
	"github.com/de-tools/license-atlas/pkg/models/api"
	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/services/pipeline"
	"github.com/de-tools/license-atlas/pkg/services/session"
	reportstore "github.com/de-tools/license-atlas/pkg/store/duckdb/report"
)

// Stable error codes the API returns in ErrorResponse.Error. Clients switch
// on these, not on the detail text.
const (
	codeValidation        = "validation_error"
	codeInvalidTransition = "invalid_transition"
	codeNotFound          = "not_found"
	codeExpired           = "session_expired"
	codeInternal          = "internal_error"
)

// Runner starts the background audit run for a session.
type Runner interface {
	Start(ctx context.Context, sess *domain.Session)
}

var _ Runner = (*pipeline.Controller)(nil)

type Handler struct {
	sessions *session.Manager
	runner   Runner
	reports  reportstore.Store
}

func NewHandler(sessions *session.Manager, runner Runner, reports reportstore.Store) *Handler {
	return &Handler{
		sessions: sessions,
		runner:   runner,
		reports:  reports,
	}
}

// CreateSession starts an audit run: validates the request, registers a new
// session in processing state and kicks off the pipeline in the background.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "request body is not valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	sess, err := h.sessions.Create(ctx, session.CreateParams{
		GoogleDomain: req.GoogleDomain,
		IsDemo:       req.IsDemo,
		DemoDataset:  domain.DemoDataset(req.DemoDataset),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// The run outlives the request, so it gets a context that survives the
	// response but keeps the request logger.
	h.runner.Start(context.WithoutCancel(ctx), sess)

	writeSuccess(w, r, http.StatusCreated, adapters.MapSessionDomainToApi(sess))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, adapters.MapSessionDomainToApi(sess))
}

// GetProgress serves the polling endpoint: the session's flat progress
// counters keyed by session id. Clients needing status or outcome fields
// fetch the full session instead.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, adapters.MapSessionDomainToProgressUpdate(sess))
}

// GetReport serves a published audit report by report id. The payload is
// stored as the wire-shape JSON, so it is replayed verbatim as the data
// field.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "reportID")

	record, err := h.reports.Get(ctx, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, json.RawMessage(record.Payload))
}

func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.NewSuccessResponse(data)); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := api.ErrorResponse{Error: code, Detail: detail, StatusCode: status}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode error response")
	}
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses and
// stable error codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, r, http.StatusBadRequest, codeValidation, validationErr.Error())
		return
	}
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		writeError(w, r, http.StatusConflict, codeInvalidTransition, transitionErr.Error())
		return
	}
	var expiredErr *domain.ExpiredError
	if errors.As(err, &expiredErr) {
		writeError(w, r, http.StatusGone, codeExpired, expiredErr.Error())
		return
	}
	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeError(w, r, http.StatusNotFound, codeNotFound, notFoundErr.Error())
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
	writeError(w, r, http.StatusInternalServerError, codeInternal, "internal server error")
}
