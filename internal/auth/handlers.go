package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/apperr"
	"github.com/EmpoweredVote/candymap/internal/httputil"
	"github.com/EmpoweredVote/candymap/internal/metrics"
	"github.com/EmpoweredVote/candymap/internal/utils"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.AuthAttempt("register", "invalid")
		httputil.Error(w, h.logger, errMissingData)
		return
	}

	token, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempt("register", outcome(err))
		httputil.Error(w, h.logger, err)
		return
	}

	metrics.AuthAttempt("register", "success")
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true, Token: token})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.AuthAttempt("login", "invalid")
		httputil.Error(w, h.logger, errMissingData)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempt("login", outcome(err))
		httputil.Error(w, h.logger, err)
		return
	}

	metrics.AuthAttempt("login", "success")
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true, Token: token})
}

// MeHandler runs behind RequireIdentity.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.Error(w, h.logger, apperr.Unauthorized())
		return
	}
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true, Username: username})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrDuplicateAccount):
		return "duplicate"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return "rejected"
	default:
		return "error"
	}
}
