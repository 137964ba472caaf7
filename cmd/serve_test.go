package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartanah/propcompare/internal/model"
	"github.com/hartanah/propcompare/internal/store"
	"github.com/hartanah/propcompare/internal/workflow"
)

// fakeEngine satisfies workflow.Engine with canned outputs.
type fakeEngine struct {
	record model.PropertyRecord
	comps  []model.Comparable
	rec    string
}

func (f *fakeEngine) ExtractProperty(ctx context.Context, url string) model.PropertyRecord {
	return f.record
}

func (f *fakeEngine) FindComparables(ctx context.Context, ref model.PropertyRecord, prefs model.UserPreferences) []model.Comparable {
	return f.comps
}

func (f *fakeEngine) GenerateRecommendation(ctx context.Context, ref model.PropertyRecord, comps []model.Comparable, prefs model.UserPreferences) string {
	return f.rec
}

func newTestServer(t *testing.T) *apiServer {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	engine := &fakeEngine{
		record: model.PropertyRecord{Title: "Sky Residence", ListingURL: "https://example.com/ref"},
		comps:  []model.Comparable{{Title: "Vista Tower", Link: "https://www.iproperty.com.my/vista"}},
		rec:    "Buy Vista Tower.",
	}

	return &apiServer{
		engine:   engine,
		store:    st,
		registry: workflow.NewRegistry(),
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "collecting_url", created["step"])

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/url", map[string]string{
		"url": "https://example.com/ref",
	})
	require.Equal(t, http.StatusOK, w.Code)
	submitted := decodeBody(t, w)
	assert.Equal(t, "collecting_preferences", submitted["step"])
	ref := submitted["reference"].(map[string]any)
	assert.Equal(t, "Sky Residence", ref["title"])

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/preferences", model.UserPreferences{
		Purpose:     "own stay",
		BudgetRange: model.BudgetRange{Min: 400000, Max: 700000},
	})
	require.Equal(t, http.StatusOK, w.Code)
	finished := decodeBody(t, w)
	assert.Equal(t, "showing_results", finished["step"])
	result := finished["result"].(map[string]any)
	assert.Equal(t, "Buy Vista Tower.", result["recommendation"])

	// The finished session shows up in run history.
	w = doJSON(t, router, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var runs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "complete", runs[0]["status"])
}

func TestSubmitURL_SessionNotFound(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodPost, "/api/sessions/unknown/url", map[string]string{"url": "https://example.com/x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitURL_MissingURL(t *testing.T) {
	srv := newTestServer(t)
	router := srv.router()

	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/url", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitPreferences_OutOfOrder(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/preferences", model.UserPreferences{})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteSession(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRuns_EmptyIsArray(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodGet, "/api/runs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetRun_NotFound(t *testing.T) {
	router := newTestServer(t).router()

	w := doJSON(t, router, http.MethodGet, "/api/runs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
