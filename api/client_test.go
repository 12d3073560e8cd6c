package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewClient(base, http.DefaultClient)
}

func TestPredict(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict", r.URL.Path)

		var req PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a b", req.Context)

		json.NewEncoder(w).Encode(PredictResponse{
			Context:     "a b",
			Predictions: []TokenPrediction{{Token: "c", Score: 0.5}},
		})
	})

	resp, err := client.Predict(context.Background(), &PredictRequest{Context: "a b", TopK: 2})
	require.NoError(t, err)
	require.Len(t, resp.Predictions, 1)
	assert.Equal(t, "c", resp.Predictions[0].Token)
}

func TestGenerateStreams(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		json.NewEncoder(w).Encode(GenerateResponse{Response: "there friend", Done: true})
	})

	var got []GenerateResponse
	err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"}, func(resp GenerateResponse) error {
		got = append(got, resp)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "there friend", got[0].Response)
	assert.True(t, got[0].Done)
}

func TestStatusErrorSurfacesServerMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "context is required"})
	})

	_, err := client.Predict(context.Background(), &PredictRequest{})
	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "context is required")
}

func TestHeartbeat(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
	})

	assert.NoError(t, client.Heartbeat(context.Background()))
}
