// Package stages holds the plumbing shared by the four remote calls of the chain.
package stages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "flightdeck/internal/common/errors"
	httpclient "flightdeck/internal/common/http"
	"flightdeck/internal/common/metrics"
	"flightdeck/internal/common/validation"
)

// Failure codes used as the error_code metric label.
const (
	FailureStatus    = "STATUS_ERROR"
	FailureTransport = "TRANSPORT_ERROR"
	FailureSchema    = "SCHEMA_INVALID"
	FailureDecode    = "DECODE_ERROR"
)

// Poster is the transport a stage needs.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload interface{}) ([]byte, error)
}

var _ Poster = (*httpclient.Client)(nil)

const tracerName = "flightdeck/stages"

// Post sends payload to path, records stage metrics and checks the body
// against contract before handing it back. Each call is one span.
func Post(ctx context.Context, client Poster, stage, path string, payload interface{}, contract *validation.Contract) (data []byte, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stage "+stage,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("http.route", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	gauge := metrics.StageCallsActive.WithLabelValues(stage)
	gauge.Inc()
	defer gauge.Dec()

	start := time.Now()
	data, err = client.PostJSON(ctx, path, payload)
	metrics.StageCallDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	if err != nil {
		RecordFailure(stage, classify(err))
		return nil, err
	}

	result, err := contract.Validate(data)
	if err != nil {
		RecordFailure(stage, FailureDecode)
		return nil, err
	}
	if !result.Valid {
		RecordFailure(stage, FailureSchema)
		return nil, apperrors.NewResponseSchemaInvalidError(path, result.Summary())
	}

	return data, nil
}

// CheckAligned fails a stage whose list response does not have one entry
// per input document. The page pairs entries with results by index.
func CheckAligned(stage, path string, documents, entries int) error {
	if documents == entries {
		return nil
	}
	RecordFailure(stage, FailureSchema)
	return apperrors.NewResponseSchemaInvalidError(path, fmt.Sprintf("expected %d entries, got %d", documents, entries))
}

// RecordSuccess counts a stage call whose body decoded cleanly.
func RecordSuccess(stage string) {
	metrics.StageCallsCompleted.WithLabelValues(stage).Inc()
}

// RecordFailure counts a failed stage call.
func RecordFailure(stage, code string) {
	metrics.StageCallsFailed.WithLabelValues(stage, code).Inc()
}

func classify(err error) string {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return FailureStatus
	}
	return FailureTransport
}
