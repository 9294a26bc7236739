package similar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flightdeck/internal/common/errors"
	httpclient "flightdeck/internal/common/http"
	"flightdeck/internal/common/logger"
)

func createTestHandler(t *testing.T, server *httptest.Server) *Handler {
	return NewHandler(LoadConfig(), httpclient.NewClient(server.URL, 5*time.Second), logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/similar", r.URL.Path)

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "https://devpost.com/software/sun-tracker", reqBody["document_or_link"])
		assert.Equal(t, float64(3), reqBody["k"])
		assert.Equal(t, map[string]interface{}{"award": "big"}, reqBody["filter"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			[0.92, {"title": "P1", "parsed_content": {"description_markdown": "one"}}],
			[0.81, {"title": "P2", "parsed_content": {"description_markdown": "two"}}],
			[0.5,  {"title": "P3", "parsed_content": {"description_markdown": "three"}}]
		]`))
	}))
	defer server.Close()

	output, err := createTestHandler(t, server).Execute(context.Background(), &Input{DocumentOrLink: "https://devpost.com/software/sun-tracker"})

	require.NoError(t, err)
	require.Len(t, output.Results, 3)
	assert.Equal(t, "P1", output.Results[0].Project.Title)
	assert.Equal(t, 0.81, output.Results[1].Score)
	assert.Equal(t, "50.0%", output.Results[2].PercentLabel())
}

func TestHandler_Execute_OmitsEmptyFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		_, hasFilter := reqBody["filter"]
		assert.False(t, hasFilter)
		assert.Equal(t, float64(5), reqBody["k"])
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := &Config{Path: "/similar", K: 5}
	handler := NewHandler(cfg, httpclient.NewClient(server.URL, time.Second), logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{DocumentOrLink: "a robot"})
	require.NoError(t, err)
	assert.Empty(t, output.Results)
}

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "server error", status: http.StatusInternalServerError, payload: `{"detail": "boom"}`},
		{name: "bad request", status: http.StatusBadRequest, payload: ``},
		{name: "schema violation", status: http.StatusOK, payload: `[{"score": 0.5}]`},
		{name: "not json", status: http.StatusOK, payload: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			output, err := createTestHandler(t, server).Execute(context.Background(), &Input{DocumentOrLink: "x"})

			assert.Nil(t, output)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSimilarFailed))
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeSimilarFetchFailed))
			assert.Equal(t, UserMessage, apperrors.UserMessage(err))
		})
	}
}

func TestHandler_Execute_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler := createTestHandler(t, server)
	server.Close()

	_, err := handler.Execute(context.Background(), &Input{DocumentOrLink: "x"})
	assert.True(t, errors.Is(err, ErrSimilarFailed))
	assert.Equal(t, UserMessage, apperrors.UserMessage(err))
}
