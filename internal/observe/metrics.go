// Package observe wires structured logging, OpenTelemetry metrics and
// tracing for the ingest pipeline and the review API.
//
// Tests should build a Metrics with NewMetrics over their own MeterProvider
// rather than use DefaultMetrics.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"hansard/internal/domain"
)

const meterName = "hansard"

// Metrics holds every instrument the application records.
type Metrics struct {
	// Documents counts finished documents by attribute "status".
	Documents metric.Int64Counter

	// UnmatchedSpeakers counts speaker introductions that resolved to no member.
	UnmatchedSpeakers metric.Int64Counter

	// ReconciledIDs counts captured ids replaced at persist time.
	ReconciledIDs metric.Int64Counter

	// FallbackIDs counts captured ids kept because their name no longer resolves.
	FallbackIDs metric.Int64Counter

	// DocumentDuration tracks end-to-end processing time of one document.
	DocumentDuration metric.Float64Histogram

	// HTTPRequestDuration tracks review API latency by method and route.
	HTTPRequestDuration metric.Float64Histogram
}

var documentBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Documents, err = m.Int64Counter("hansard.documents",
		metric.WithDescription("Transcripts processed by outcome status."),
	); err != nil {
		return nil, err
	}
	if met.UnmatchedSpeakers, err = m.Int64Counter("hansard.speakers.unmatched",
		metric.WithDescription("Speaker introductions that did not resolve to a member."),
	); err != nil {
		return nil, err
	}
	if met.ReconciledIDs, err = m.Int64Counter("hansard.ids.reconciled",
		metric.WithDescription("Member ids corrected against the current registry at persist time."),
	); err != nil {
		return nil, err
	}
	if met.FallbackIDs, err = m.Int64Counter("hansard.ids.fallback",
		metric.WithDescription("Member ids kept and flagged because the name no longer resolves."),
	); err != nil {
		return nil, err
	}
	if met.DocumentDuration, err = m.Float64Histogram("hansard.document.duration",
		metric.WithDescription("Time to fetch, extract, parse and persist one transcript."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(documentBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("hansard.http.request.duration",
		metric.WithDescription("Review API latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordDocument records the outcome of one document.
func (m *Metrics) RecordDocument(ctx context.Context, res domain.DocumentResult) {
	m.Documents.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(res.Status))))
	if res.Unmatched > 0 {
		m.UnmatchedSpeakers.Add(ctx, int64(res.Unmatched))
	}
	if res.Reconciled > 0 {
		m.ReconciledIDs.Add(ctx, int64(res.Reconciled))
	}
	if res.Fallbacks > 0 {
		m.FallbackIDs.Add(ctx, int64(res.Fallbacks))
	}
	m.DocumentDuration.Record(ctx, res.Duration.Seconds(),
		metric.WithAttributes(attribute.String("status", string(res.Status))))
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a process-wide Metrics built on the global
// MeterProvider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}
