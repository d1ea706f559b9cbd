package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// PreloadMetrics holds the business instruments of the preload service.
type PreloadMetrics struct {
	documentsCreated   *Counter
	transitions        *Counter
	reconciliations    *Counter
	reconciliationRows *Histogram
	reconcileDuration  *Histogram
}

// NewPreloadMetrics registers the instruments on meter
func NewPreloadMetrics(meter metric.Meter) (*PreloadMetrics, error) {
	created, err := NewCounter(meter, "preload_documents_created_total", "Documents submitted", "{document}")
	if err != nil {
		return nil, err
	}
	transitions, err := NewCounter(meter, "preload_document_transitions_total", "Document workflow transitions", "{transition}")
	if err != nil {
		return nil, err
	}
	reconciliations, err := NewCounter(meter, "preload_reconciliations_total", "Reconciliations served", "{reconciliation}")
	if err != nil {
		return nil, err
	}
	rows, err := NewHistogram(meter, "preload_reconciliation_rows", "Rows returned per reconciliation", "{row}", RowCountBuckets...)
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "preload_reconciliation_duration_seconds", "Reconciliation latency", "s", DurationBuckets...)
	if err != nil {
		return nil, err
	}
	return &PreloadMetrics{
		documentsCreated:   created,
		transitions:        transitions,
		reconciliations:    reconciliations,
		reconciliationRows: rows,
		reconcileDuration:  duration,
	}, nil
}

// RecordDocumentCreated counts a submission
func (m *PreloadMetrics) RecordDocumentCreated(ctx context.Context) {
	m.documentsCreated.Inc(ctx)
}

// RecordTransition counts a workflow transition
func (m *PreloadMetrics) RecordTransition(ctx context.Context, from, to string) {
	m.transitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordReconciliation counts a reconciliation and its result size
func (m *PreloadMetrics) RecordReconciliation(ctx context.Context, variant string, rows int, took time.Duration) {
	attr := AttrVariant.String(variant)
	m.reconciliations.Inc(ctx, attr)
	m.reconciliationRows.Record(ctx, float64(rows), attr)
	m.reconcileDuration.RecordDuration(ctx, took, attr)
}
