package httputil

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/apperr"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes data as the response body with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Error reports err as an {error} body. Unclassified errors are logged and
// answered with a generic 500.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	Message(w, status, apperr.Message(err))
}

// Success is the body returned by write endpoints.
type Success struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}
