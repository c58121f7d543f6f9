package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ffwpu/internal/recovery/models"
	dErrors "ffwpu/pkg/domain-errors"
	"ffwpu/pkg/platform/httputil"
	"ffwpu/pkg/requestcontext"
)

const (
	// Shared by every failure that must not reveal whether a member exists.
	identityNotVerifiedMessage = "We could not verify your identity with the details provided. Please check them and try again."
	genericFailureMessage      = "Something went wrong. Please try again."
)

// Service defines the recovery operation.
type Service interface {
	Recover(ctx context.Context, req models.RecoveryRequest, meta models.RequestMeta) (*models.RecoveryResult, error)
}

// Handler wires the recovery endpoint to the recovery service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the recovery endpoint. Route-level middleware such as rate
// limiting is applied by the caller.
func (h *Handler) Register(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Post("/auth/recover", h.HandleRecover)
}

// HandleRecover handles POST /auth/recover.
func (h *Handler) HandleRecover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RecoverRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	meta := models.RequestMeta{
		SourceAddress:    requestcontext.ClientIP(ctx),
		ClientIdentifier: requestcontext.UserAgent(ctx),
	}
	result, err := h.service.Recover(ctx, req.toModel(), meta)
	if err != nil {
		h.writeRecoverError(ctx, w, requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "recovery token issued",
		"request_id", requestID,
		"account_id", result.AccountID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResult(result))
}

// writeRecoverError translates service failures into the public contract.
// NoMatch and BirthDateMismatch share one code and message.
func (h *Handler) writeRecoverError(ctx context.Context, w http.ResponseWriter, requestID string, err error) {
	code := dErrors.CodeOf(err)
	switch {
	case code == dErrors.CodeNoMatchFound || code == dErrors.CodeBirthDateMismatch:
		h.logger.InfoContext(ctx, "identity not verified", "request_id", requestID, "kind", code)
		httputil.WriteError(w, dErrors.New(dErrors.CodeIdentityNotVerified, identityNotVerifiedMessage))
	case code == dErrors.CodeNoAccountForMember:
		httputil.WriteErrorWith(w, err, map[string]any{"can_register": true})
	case code.IsInternal():
		h.logger.ErrorContext(ctx, "account recovery failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteErrorWith(w, err, map[string]any{"error_description": genericFailureMessage})
	default:
		httputil.WriteError(w, err)
	}
}
