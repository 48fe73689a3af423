package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ingestCounter      metric.Int64Counter
	ingestDuration     metric.Float64Histogram
	ingestErrorCounter metric.Int64Counter
)

// InitIngestMetrics initializes material-ingestion metrics
func InitIngestMetrics() error {
	meter := otel.Meter("phonica.material")

	var err error

	ingestCounter, err = meter.Int64Counter(
		"material.ingest.count",
		metric.WithDescription("Number of material ingestion operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	ingestDuration, err = meter.Float64Histogram(
		"material.ingest.duration",
		metric.WithDescription("Duration of material ingestion operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	ingestErrorCounter, err = meter.Int64Counter(
		"material.ingest.errors",
		metric.WithDescription("Number of material ingestion errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordIngestSuccess records a completed ingestion
func RecordIngestSuccess(ctx context.Context, d time.Duration) {
	if ingestCounter != nil {
		ingestCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", "success")),
		)
	}
	if ingestDuration != nil {
		ingestDuration.Record(ctx, float64(d.Milliseconds()),
			metric.WithAttributes(attribute.String("status", "success")),
		)
	}
}

// RecordIngestError records a failed ingestion by error kind
func RecordIngestError(ctx context.Context, errorType string) {
	if ingestErrorCounter != nil {
		ingestErrorCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("error_type", errorType)),
		)
	}
}
