package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtkrshnaaa/cevia/api"
	"github.com/gtkrshnaaa/cevia/lm"
	"github.com/gtkrshnaaa/cevia/version"
)

func testHandler(t *testing.T, corpus string) http.Handler {
	t.Helper()

	m, err := lm.New(3)
	require.NoError(t, err)
	require.NoError(t, m.Train(strings.NewReader(corpus)))

	return NewServer(m).GenerateRoutes()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPredictRoute(t *testing.T) {
	h := testHandler(t, "a b c\na b d\n")

	w := post(t, h, "/api/predict", api.PredictRequest{Context: "a b", TopK: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "a b", resp.Context)
	require.Len(t, resp.Predictions, 2)

	tokens := []string{resp.Predictions[0].Token, resp.Predictions[1].Token}
	assert.ElementsMatch(t, []string{"c", "d"}, tokens)
	assert.InDelta(t, 0.5, resp.Predictions[0].Score, 1e-9)
}

func TestPredictRouteRequiresContext(t *testing.T) {
	h := testHandler(t, "a b\n")

	w := post(t, h, "/api/predict", api.PredictRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "context is required", resp.Error)
}

func TestGenerateRoute(t *testing.T) {
	h := testHandler(t, strings.Repeat("hi there friend\n", 10))

	temperature := 0.0
	w := post(t, h, "/api/generate", api.GenerateRequest{
		Prompt:      "hi",
		MaxTokens:   2,
		Temperature: &temperature,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "there friend", resp.Response)
	assert.True(t, resp.Done)
}

func TestGenerateRouteRequiresPrompt(t *testing.T) {
	h := testHandler(t, "a b\n")

	w := post(t, h, "/api/generate", api.GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShowRoute(t *testing.T) {
	h := testHandler(t, "a b c\na b d\n")

	w := get(t, h, "/api/show")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ShowResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.VocabSize)
	assert.Equal(t, uint64(6), resp.TotalTokens)
	assert.Equal(t, 3, resp.MaxN)
}

func TestVersionRoute(t *testing.T) {
	h := testHandler(t, "a b\n")

	w := get(t, h, "/api/version")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.VersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, version.Version, resp.Version)
}

func TestRequestIDHeader(t *testing.T) {
	h := testHandler(t, "a b\n")

	w := get(t, h, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
