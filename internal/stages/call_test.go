package stages

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "flightdeck/internal/common/errors"
	httpclient "flightdeck/internal/common/http"
	"flightdeck/internal/common/metrics"
	"flightdeck/internal/common/validation"
)

type posterFunc func(ctx context.Context, path string, payload interface{}) ([]byte, error)

func (f posterFunc) PostJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return f(ctx, path, payload)
}

func TestPost_ValidBody(t *testing.T) {
	client := posterFunc(func(ctx context.Context, path string, payload interface{}) ([]byte, error) {
		assert.Equal(t, "/what-they-did", path)
		return []byte(`["a", "b"]`), nil
	})

	data, err := Post(context.Background(), client, "test-valid", "/what-they-did", nil, validation.StringListResponse)
	require.NoError(t, err)
	assert.JSONEq(t, `["a", "b"]`, string(data))
	assert.Zero(t, testutil.ToFloat64(metrics.StageCallsActive.WithLabelValues("test-valid")))
}

func TestPost_FailuresAreClassified(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		err  error
		code string
	}{
		{name: "status", err: &httpclient.StatusError{Method: "POST", URL: "/x", StatusCode: 502}, code: FailureStatus},
		{name: "transport", err: errors.New("connection refused"), code: FailureTransport},
		{name: "schema", body: []byte(`{"not": "a list"}`), code: FailureSchema},
		{name: "decode", body: []byte(`not json`), code: FailureDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := "test-" + tt.name
			client := posterFunc(func(ctx context.Context, path string, payload interface{}) ([]byte, error) {
				return tt.body, tt.err
			})

			_, err := Post(context.Background(), client, stage, "/x", nil, validation.StringListResponse)
			require.Error(t, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StageCallsFailed.WithLabelValues(stage, tt.code)))
			if tt.code == FailureSchema {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeResponseSchemaInvalid))
			}
		})
	}
}

func TestRecordSuccess(t *testing.T) {
	RecordSuccess("test-success")
	RecordSuccess("test-success")
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.StageCallsCompleted.WithLabelValues("test-success")))
}

func TestCheckAligned(t *testing.T) {
	require.NoError(t, CheckAligned("test-aligned", "/x", 2, 2))

	err := CheckAligned("test-misaligned", "/x", 3, 1)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeResponseSchemaInvalid))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StageCallsFailed.WithLabelValues("test-misaligned", FailureSchema)))
}

func TestPost_RecordsSpanPerCall(t *testing.T) {
	prev := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ok := posterFunc(func(ctx context.Context, path string, payload interface{}) ([]byte, error) {
		return []byte(`["a"]`), nil
	})
	failing := posterFunc(func(ctx context.Context, path string, payload interface{}) ([]byte, error) {
		return nil, &httpclient.StatusError{Method: "POST", URL: path, StatusCode: 500}
	})

	_, err := Post(context.Background(), ok, "test-span-ok", "/what-they-did", nil, validation.StringListResponse)
	require.NoError(t, err)
	_, err = Post(context.Background(), failing, "test-span-failed", "/arena", nil, validation.StringListResponse)
	require.Error(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "stage test-span-ok", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, "stage test-span-failed", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	require.NotEmpty(t, ended[1].Events())
	assert.Equal(t, "exception", ended[1].Events()[0].Name)
}
