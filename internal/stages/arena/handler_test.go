package arena

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
		assert.Equal(t, "/arena", r.URL.Path)

		var reqBody map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "my sun tracker", reqBody["project_doc"])

		w.Write([]byte(`{
			"similar_projects": [[0.9, {"title": "P1"}], {"title": "P2"}],
			"sorted_suggestions": ["# Best\n\nwinner", "runner up"]
		}`))
	}))
	defer server.Close()

	output, err := createTestHandler(t, server).Execute(context.Background(), &Input{ProjectDoc: "my sun tracker"})

	require.NoError(t, err)
	assert.Equal(t, []string{"# Best\n\nwinner", "runner up"}, output.Suggestions)
}

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "server error", status: http.StatusInternalServerError, payload: `{}`},
		{name: "missing suggestions", status: http.StatusOK, payload: `{"similar_projects": []}`},
		{name: "suggestions not strings", status: http.StatusOK, payload: `{"sorted_suggestions": [1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			output, err := createTestHandler(t, server).Execute(context.Background(), &Input{ProjectDoc: "x"})

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrArenaFailed))
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeArenaFetchFailed))
			assert.Equal(t, "Failed to fetch suggestions", apperrors.UserMessage(err))
		})
	}
}
