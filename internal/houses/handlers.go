package houses

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/apperr"
	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/httputil"
	"github.com/EmpoweredVote/candymap/internal/utils"
)

// maxPayloadBytes bounds a submission body.
const maxPayloadBytes = 4 << 10

var (
	errMissingQuery = apperr.Validation("Missing query parameters")
	errInvalidQuery = apperr.Validation("Invalid query parameters")
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func viewer(r *http.Request) string {
	username, _ := utils.GetUsernameFromContext(r.Context())
	return username
}

func (h *Handler) RandomHouseHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Random(r.Context(), viewer(r))
	if err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, view)
}

func (h *Handler) GetHouseHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context(), chi.URLParam(r, "id"), viewer(r))
	if err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, view)
}

func (h *Handler) HomesInHandler(w http.ResponseWriter, r *http.Request) {
	rect, err := ParseRect(r.URL.Query())
	if err != nil {
		httputil.Error(w, h.logger, err)
		return
	}

	views, err := h.svc.InBox(r.Context(), rect, viewer(r))
	if err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, views)
}

// SubmitHandler checks, in order: building exists, caller is identified,
// payload is valid.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Exists(id); err != nil {
		httputil.Error(w, h.logger, err)
		return
	}

	author, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.Error(w, h.logger, apperr.Unauthorized())
		return
	}

	var p Payload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			httputil.Error(w, h.logger, errMissingData)
			return
		}
		httputil.Error(w, h.logger, errInvalidData)
		return
	}

	if err := h.svc.Record(r.Context(), id, author, p); err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true})
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Exists(id); err != nil {
		httputil.Error(w, h.logger, err)
		return
	}

	author, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.Error(w, h.logger, apperr.Unauthorized())
		return
	}

	if err := h.svc.Delete(r.Context(), id, author); err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true})
}

// ParseRect reads nwLat, nwLng, seLat and seLng. All four are required and
// must be finite numbers.
func ParseRect(q url.Values) (catalog.Rect, error) {
	var vals [4]float64
	for i, key := range [4]string{"nwLat", "nwLng", "seLat", "seLng"} {
		raw := q.Get(key)
		if raw == "" {
			return catalog.Rect{}, errMissingQuery
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return catalog.Rect{}, errInvalidQuery
		}
		vals[i] = v
	}
	return catalog.Rect{NWLat: vals[0], NWLng: vals[1], SELat: vals[2], SELng: vals[3]}, nil
}
