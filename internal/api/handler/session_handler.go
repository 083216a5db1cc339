package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blaisecz/athlete-readiness/internal/api/validation"
	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
	"github.com/blaisecz/athlete-readiness/internal/llm"
	"github.com/blaisecz/athlete-readiness/internal/session"
	"github.com/blaisecz/athlete-readiness/pkg/problem"
	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	session  session.Session
	langfuse langfuse.Client
}

func NewSessionHandler(s session.Session, langfuseClient langfuse.Client) *SessionHandler {
	return &SessionHandler{session: s, langfuse: langfuseClient}
}

// MetricValueRequest is the body for a single-channel update.
// @Description New value for one metric channel.
type MetricValueRequest struct {
	Value *int `json:"value" validate:"required" example:"7"`
}

// FeedbackRequest is the request body for report feedback.
// @Description Rating for a previously issued readiness report.
type FeedbackRequest struct {
	// Trace ID from the report
	TraceID string `json:"trace_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Rating score (1-5)
	Score int `json:"score" validate:"required,min=1,max=5" example:"4"`
	// Optional comment
	Comment string `json:"comment,omitempty" validate:"max=500" example:"The breathing protocol helped."`
}

// Get handles GET /v1/session
// @Summary Get the current session
// @Description Returns the session state with the fields that state carries.
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Router /session [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// SubmitProfile handles POST /v1/session/profile
// @Summary Register the athlete
// @Description Validates the onboarding form, creates the profile and moves the session to CHECK_IN.
// @Tags session
// @Accept json
// @Produce json
// @Param request body domain.CreateProfileRequest true "Onboarding form"
// @Success 201 {object} session.Snapshot
// @Failure 400 {object} problem.Problem
// @Failure 409 {object} problem.Problem "Not in ONBOARDING"
// @Failure 422 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /session/profile [post]
func (h *SessionHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	snap, err := h.session.SubmitProfile(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// SetMetrics handles PUT /v1/session/metrics
// @Summary Replace today's metrics
// @Tags session
// @Accept json
// @Produce json
// @Param request body domain.MetricVector true "All eight channels"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 422 {object} problem.Problem "Value outside 1-10"
// @Router /session/metrics [put]
func (h *SessionHandler) SetMetrics(w http.ResponseWriter, r *http.Request) {
	var vector domain.MetricVector
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&vector); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	snap, err := h.session.SetMetrics(vector)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// AdjustMetric handles PATCH /v1/session/metrics/{channel}
// @Summary Adjust one metric
// @Tags session
// @Accept json
// @Produce json
// @Param channel path string true "Metric channel" Enums(energy, sleep_quality, mental_wellbeing, muscle_soreness, stress, motivation, fatigue, focus)
// @Param request body MetricValueRequest true "New value"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} problem.Problem
// @Failure 409 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /session/metrics/{channel} [patch]
func (h *SessionHandler) AdjustMetric(w http.ResponseWriter, r *http.Request) {
	channel, err := domain.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req MetricValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	snap, err := h.session.AdjustMetric(channel, *req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SubmitCheckIn handles POST /v1/session/check-in
// @Summary Submit today's check-in
// @Description Runs the readiness analysis on the current metrics and moves the session to RESULTS.
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Failure 409 {object} problem.Problem "Wrong state or analysis already in progress"
// @Failure 422 {object} problem.Problem
// @Failure 502 {object} problem.Problem "Inference service failed or returned an untrusted analysis"
// @Failure 503 {object} problem.Problem "Inference service not configured"
// @Router /session/check-in [post]
func (h *SessionHandler) SubmitCheckIn(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.SubmitCheckIn(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Back handles POST /v1/session/back
// @Summary Return to the check-in
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Failure 409 {object} problem.Problem
// @Router /session/back [post]
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Back()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Reset handles POST /v1/session/reset
// @Summary Reset the session
// @Description Forgets the athlete locally and returns to ONBOARDING. Remote history is kept.
// @Tags session
// @Produce json
// @Success 200 {object} session.Snapshot
// @Failure 500 {object} problem.Problem
// @Router /session/reset [post]
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Reset()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PostFeedback handles POST /v1/session/report/feedback
// @Summary Rate a readiness report
// @Description Attaches a 1-5 rating and optional comment to the report's trace.
// @Tags session
// @Accept json
// @Param request body FeedbackRequest true "Feedback"
// @Success 204 "Feedback accepted"
// @Failure 400 {object} problem.Problem
// @Failure 422 {object} problem.Problem
// @Router /session/report/feedback [post]
func (h *SessionHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	// Feedback is accepted even when Langfuse is disabled
	if err := h.langfuse.CreateScore(r.Context(), langfuse.ScoreInput{
		TraceID: req.TraceID,
		Name:    langfuse.ScoreAthleteRating,
		Value:   float64(req.Score),
		Comment: req.Comment,
	}); err != nil {
		slog.Warn("feedback score rejected", "component", "http", "trace_id", req.TraceID, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain, session and inference errors to problem responses.
func writeError(w http.ResponseWriter, err error) {
	var rangeErr *domain.OutOfRangeError
	switch {
	case errors.As(err, &rangeErr):
		problem.ValidationError("Metric value out of range", []problem.FieldError{{
			Field:   string(rangeErr.Channel),
			Message: fmt.Sprintf("must be between %d and %d", domain.MinMetricValue, domain.MaxMetricValue),
		}}).Write(w)
	case errors.Is(err, domain.ErrUnknownChannel):
		problem.ValidationError(err.Error(), []problem.FieldError{{Field: "channel", Message: "is invalid"}}).Write(w)
	case errors.Is(err, domain.ErrInvalidInput):
		problem.ValidationError(err.Error(), nil).Write(w)
	case errors.Is(err, session.ErrBusy):
		problem.New(http.StatusConflict, "analysis-in-progress", "Analysis In Progress", "A check-in is already being analyzed").Write(w)
	case errors.Is(err, session.ErrInvalidTransition):
		problem.New(http.StatusConflict, "invalid-transition", "Invalid Transition", err.Error()).Write(w)
	case errors.Is(err, session.ErrSuperseded):
		problem.New(http.StatusConflict, "session-reset", "Session Reset", "The session was reset before the request completed").Write(w)
	case errors.Is(err, llm.ErrConfiguration):
		problem.ServiceUnavailable("Inference service is not configured").
			WithKind(string(llm.KindConfiguration), false).Write(w)
	case errors.Is(err, llm.ErrTransport):
		problem.BadGateway("inference-unavailable", "Inference Unavailable", "The inference service could not be reached").
			WithKind(string(llm.KindTransport), true).Write(w)
	case errors.Is(err, llm.ErrMalformedResponse), errors.Is(err, llm.ErrSchemaViolation):
		kind, _ := llm.KindOf(err)
		problem.BadGateway("untrusted-analysis", "Untrusted Analysis", "The inference service returned an analysis that failed validation").
			WithKind(string(kind), false).Write(w)
	default:
		slog.Error("unhandled error", "component", "http", "error", err)
		problem.InternalError("An unexpected error occurred").Write(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
