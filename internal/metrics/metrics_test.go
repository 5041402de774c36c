package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/house/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/house/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/house/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/house/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("record"))
	RecordSubmission()
	assert.Equal(t, before+1, testutil.ToFloat64(submissions.WithLabelValues("record")))

	before = testutil.ToFloat64(authAttempts.WithLabelValues("login", "success"))
	AuthAttempt("login", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(authAttempts.WithLabelValues("login", "success")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	DeleteSubmission()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "candymap_houses_submissions_total"))
}
