package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	id "teampulse/pkg/domain"
	dErrors "teampulse/pkg/domain-errors"
	"teampulse/pkg/platform/httputil"
	"teampulse/pkg/requestcontext"

	"teampulse/internal/platform/middleware"
	"teampulse/internal/signals/models"
)

// RoleManager and RoleAdmin are the roles the signals routes recognize.
// Every other authenticated role may record events but not read teams.
const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Service defines the interface for signal aggregation operations.
type Service interface {
	Record(ctx context.Context, event models.SignalEvent) (models.SignalEvent, error)
	Run(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error)
	RunAll(ctx context.Context) error
	Snapshot(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error)
}

// Handler handles the signals endpoints.
type Handler struct {
	logger       *slog.Logger
	signals      Service
	jwtValidator middleware.JWTValidator
}

// New creates a new signals Handler.
func New(signals Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		signals:      signals,
		jwtValidator: jwtValidator,
	}
}

// Register registers the signals routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	signalsRouter := chi.NewRouter()
	signalsRouter.Use(middleware.Recovery(h.logger))
	signalsRouter.Use(middleware.RequestID)
	signalsRouter.Use(middleware.RequestTime)
	signalsRouter.Use(middleware.Logger(h.logger))
	signalsRouter.Use(middleware.Timeout(30 * time.Second))
	signalsRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	signalsRouter.Post("/signals/record", h.handleRecord)
	signalsRouter.With(middleware.RequireRole(h.logger, RoleManager, RoleAdmin)).
		Get("/signals/team", h.handleGetTeam)
	signalsRouter.With(middleware.RequireRole(h.logger, RoleAdmin)).
		Post("/signals/aggregate", h.handleAggregate)

	r.Mount("/", signalsRouter)
}

// handleRecord appends one behavioral signal event.
func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordSignalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := req.ToEvent()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid record signal request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	recorded, err := h.signals.Record(ctx, event)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			h.logger.WarnContext(ctx, "invalid record signal request",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to record signal",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to record signal"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RecordSignalResponse{
		ID:         recorded.ID.String(),
		OccurredAt: recorded.OccurredAt,
	})
}

// handleGetTeam returns the caller's team snapshot. Admins may read any
// team by passing manager_id; managers always read their own.
func (h *Handler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	managerID, err := h.resolveManagerID(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid team snapshot request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	snapshot, err := h.signals.Snapshot(ctx, managerID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load team snapshot",
			"request_id", requestID,
			"manager_id", managerID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load team snapshot"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

// handleAggregate triggers an aggregation run: one manager when the body
// names one, every manager otherwise.
func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	// An empty body means "run everything"; only decode when one is present.
	var req AggregateRequest
	if r.Body != nil && r.ContentLength != 0 {
		var ok bool
		req, ok = httputil.DecodeAndPrepare[AggregateRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
	}

	if req.ManagerID != "" {
		managerID, err := id.ParseManagerID(req.ManagerID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		snapshot, err := h.signals.Run(ctx, managerID)
		if err != nil {
			h.logger.ErrorContext(ctx, "aggregation run failed",
				"request_id", requestID,
				"manager_id", managerID.String(),
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, snapshot)
		return
	}

	if err := h.signals.RunAll(ctx); err != nil {
		h.logger.ErrorContext(ctx, "aggregation run failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AggregateResponse{Status: "completed"})
}

func (h *Handler) resolveManagerID(r *http.Request) (id.ManagerID, error) {
	ctx := r.Context()
	if requestcontext.Role(ctx) == RoleAdmin {
		if raw := r.URL.Query().Get("manager_id"); raw != "" {
			return id.ParseManagerID(raw)
		}
	}
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return id.ManagerID{}, dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return id.ManagerID(uuid.UUID(userID)), nil
}
