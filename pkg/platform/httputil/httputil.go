// Package httputil holds the JSON envelope helpers shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "ffwpu/pkg/domain-errors"
)

// MaxBodyBytes caps request bodies decoded by DecodeAndPrepare.
const MaxBodyBytes = 64 << 10

// Validatable is implemented by request DTOs that normalize and validate
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// validatablePtr constrains T so that *T implements Validatable.
type validatablePtr[T any] interface {
	*T
	Validatable
}

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeBadRequest:          http.StatusBadRequest,
	dErrors.CodeValidation:          http.StatusBadRequest,
	dErrors.CodeInvalidInput:        http.StatusBadRequest,
	dErrors.CodeInvalidDateFormat:   http.StatusBadRequest,
	dErrors.CodeUnauthorized:        http.StatusUnauthorized,
	dErrors.CodeForbidden:           http.StatusForbidden,
	dErrors.CodeAccountSuspended:    http.StatusForbidden,
	dErrors.CodeAccountDeleted:      http.StatusForbidden,
	dErrors.CodeNotFound:            http.StatusNotFound,
	dErrors.CodeNoMatchFound:        http.StatusNotFound,
	dErrors.CodeBirthDateMismatch:   http.StatusNotFound,
	dErrors.CodeIdentityNotVerified: http.StatusNotFound,
	dErrors.CodeNoAccountForMember:  http.StatusNotFound,
	dErrors.CodeConflict:            http.StatusConflict,
	dErrors.CodeAmbiguousMatch:      http.StatusConflict,
	dErrors.CodeEmailMismatch:       http.StatusUnprocessableEntity,
	dErrors.CodeInvariantViolation:  http.StatusUnprocessableEntity,
	dErrors.CodeRateLimited:         http.StatusTooManyRequests,
	dErrors.CodeTimeout:             http.StatusGatewayTimeout,
	dErrors.CodeStorageFailure:      http.StatusInternalServerError,
	dErrors.CodeInternal:            http.StatusInternalServerError,
}

// StatusFor maps a domain error code onto an HTTP status.
func StatusFor(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard {"error", "error_description"} envelope.
// Internal codes never carry their message; storage_failure keeps its code,
// every other internal code is collapsed to internal_error.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWith(w, err, nil)
}

// WriteErrorWith writes the error envelope plus extra top-level fields.
func WriteErrorWith(w http.ResponseWriter, err error, extra map[string]any) {
	code := dErrors.CodeOf(err)
	body := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	if code.IsInternal() {
		body["error"] = string(dErrors.CodeInternal)
		if code == dErrors.CodeStorageFailure {
			body["error"] = string(code)
		}
		WriteJSON(w, http.StatusInternalServerError, body)
		return
	}
	body["error"] = string(code)
	if de, ok := dErrors.As(err); ok && de.Message != "" {
		body["error_description"] = de.Message
	}
	WriteJSON(w, StatusFor(code), body)
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method.
// On failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any, PT validatablePtr[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		}
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}

	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}
