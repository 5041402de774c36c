package houses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/middleware"
)

// staticTokens resolves a fixed token table.
type staticTokens map[string]string

func (s staticTokens) Authenticate(_ context.Context, token string) (string, bool) {
	u, ok := s[token]
	return u, ok
}

func newTestRouter(t *testing.T, dev bool) (http.Handler, *MemoryStore) {
	t.Helper()
	svc, store := newTestService(t)
	h := NewHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(middleware.IdentityMiddleware(staticTokens{"tok-alice": "alice", "tok-bob": "bob"}))
	r.Route("/api", func(r chi.Router) {
		SetupRoutes(r, h, dev)
	})
	return r, store
}

func serve(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetHouse(t *testing.T) {
	h, _ := newTestRouter(t, false)

	rec := serve(t, h, http.MethodGet, "/api/house/101", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "101", body["id"])
	assert.NotContains(t, body, "tags")
	assert.NotContains(t, body, "submission")
	assert.NotContains(t, body, "stats")
	assert.Equal(t, []any{}, body["submissions"])
	assert.Contains(t, body, "geometry")
}

func TestGetHouseNotFound(t *testing.T) {
	h, _ := newTestRouter(t, false)

	rec := serve(t, h, http.MethodGet, "/api/house/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"House not found"}`, rec.Body.String())
}

func TestRandomHouse(t *testing.T) {
	h, _ := newTestRouter(t, false)

	rec := serve(t, h, http.MethodGet, "/api/house/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Contains(t, []string{"101", "102", "103"}, view.ID)
}

func TestSubmitAndViewOwnSubmission(t *testing.T) {
	h, _ := newTestRouter(t, false)

	rec := serve(t, h, http.MethodPost, "/api/house/101", "tok-alice", `{"candy":true,"candyType":0.5,"candyCount":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/api/house/101", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var own map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own))
	assert.Equal(t, map[string]any{"candy": true, "candyType": 0.5, "candyCount": 1.0}, own["submission"])
	assert.Equal(t, map[string]any{"candy": 1.0, "candyType": 0.5, "candyCount": 1.0}, own["stats"])
	assert.Equal(t, 1.0, own["submissionCount"])

	rec = serve(t, h, http.MethodGet, "/api/house/101", "tok-bob", "")
	var other map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))
	assert.NotContains(t, other, "submission")
	assert.Len(t, other["submissions"], 1)
	assert.NotContains(t, rec.Body.String(), "alice")
}

func TestSubmitErrorPrecedence(t *testing.T) {
	h, store := newTestRouter(t, false)

	cases := []struct {
		name   string
		path   string
		token  string
		body   string
		status int
	}{
		{"unknown building beats anonymous", "/api/house/999", "", `{}`, http.StatusNotFound},
		{"anonymous beats bad payload", "/api/house/101", "", `{"candy":"maybe"}`, http.StatusUnauthorized},
		{"unknown token is anonymous", "/api/house/101", "tok-mallory", `{"candy":false,"noCandyReason":"notHome"}`, http.StatusUnauthorized},
		{"empty body", "/api/house/101", "tok-alice", ``, http.StatusBadRequest},
		{"malformed body", "/api/house/101", "tok-alice", `{"candy":`, http.StatusBadRequest},
		{"mixed shape", "/api/house/101", "tok-alice", `{"candy":false,"noCandyReason":"notHome","candyType":1}`, http.StatusBadRequest},
		{"out of range", "/api/house/101", "tok-alice", `{"candy":true,"candyType":2,"candyCount":1}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}

	set, err := store.ForBuilding(context.Background(), "101")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestDeleteHouse(t *testing.T) {
	h, store := newTestRouter(t, false)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "101", "alice", GaveCandy(1, 1)))
	require.NoError(t, store.Upsert(ctx, "101", "bob", NoCandyGiven(NotHome)))

	rec := serve(t, h, http.MethodDelete, "/api/house/999", "tok-alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodDelete, "/api/house/101", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, h, http.MethodDelete, "/api/house/101", "tok-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// Deleting again is not an error.
	rec = serve(t, h, http.MethodDelete, "/api/house/101", "tok-alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	set, err := store.ForBuilding(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, SubmissionSet{"bob": NoCandyGiven(NotHome)}, set)
}

func TestHomesIn(t *testing.T) {
	h, _ := newTestRouter(t, false)

	q := url.Values{"nwLat": {"50"}, "nwLng": {"-113"}, "seLat": {"49"}, "seLng": {"-112"}}
	rec := serve(t, h, http.MethodGet, "/api/homes/in?"+q.Encode(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "101", views[0].ID)
	assert.Equal(t, "103", views[1].ID)
}

func TestHomesInEmptyResultIsArray(t *testing.T) {
	h, _ := newTestRouter(t, false)

	rec := serve(t, h, http.MethodGet, "/api/homes/in?nwLat=1&nwLng=0&seLat=0&seLng=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHomesInBadQuery(t *testing.T) {
	h, _ := newTestRouter(t, false)

	for _, query := range []string{
		"",
		"nwLat=50&nwLng=-113&seLat=49",
		"nwLat=50&nwLng=-113&seLat=49&seLng=",
		"nwLat=fifty&nwLng=-113&seLat=49&seLng=-112",
		"nwLat=NaN&nwLng=-113&seLat=49&seLng=-112",
	} {
		rec := serve(t, h, http.MethodGet, "/api/homes/in?"+query, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect(url.Values{"nwLat": {"50.5"}, "nwLng": {"-113"}, "seLat": {"49"}, "seLng": {"-112.25"}})
	require.NoError(t, err)
	assert.Equal(t, catalog.Rect{NWLat: 50.5, NWLng: -113, SELat: 49, SELng: -112.25}, r)
}

func TestDevEndpoints(t *testing.T) {
	h, store := newTestRouter(t, false)

	rec := serve(t, h, http.MethodGet, "/api/test", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = serve(t, h, http.MethodGet, "/api/test/fillAll", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h, store = newTestRouter(t, true)
	require.NoError(t, store.Upsert(context.Background(), "101", "alice", GaveCandy(1, 1)))

	rec = serve(t, h, http.MethodGet, "/api/test", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tags"`)

	rec = serve(t, h, http.MethodGet, "/api/test/fillAll", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	set, err := store.ForBuilding(context.Background(), "101")
	require.NoError(t, err)
	assert.NotContains(t, set, "alice")
}
