package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/logicspark/logicspark/internal/common"
)

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type dataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Success: true, Message: msg})
}

// errorMessages overrides the client-facing text of a sentinel for one
// operation. Anything unmapped that is not a client error gets fallback.
type errorMessages struct {
	invalidCredentials string
	notFound           string
	fallback           string
}

// writeError maps err to a status code and a safe message. Unexpected errors
// are logged with detail by the caller's logger and never echoed.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	status, msg := classify(err, msgs)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, messageResponse{Success: false, Message: msg})
}

func classify(err error, msgs errorMessages) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrDuplicateIdentity):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, orDefault(msgs.invalidCredentials, "Invalid credentials")
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, "Access denied. No token provided."
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Access denied. Admin only."
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, orDefault(msgs.notFound, "Not found")
	case errors.Is(err, common.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "Export storage is not configured"
	case errors.Is(err, common.ErrTimeout):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, orDefault(msgs.fallback, "Server error")
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
