package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/shared"
)

// HistoryRecorder writes every document transition to the history log
type HistoryRecorder struct {
	repo document.HistoryRepository
}

// NewHistoryRecorder creates a HistoryRecorder
func NewHistoryRecorder(repo document.HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// EventTypes returns the events the recorder listens to
func (h *HistoryRecorder) EventTypes() []string {
	return []string{document.EventTypeDocumentCreated, document.EventTypeDocumentStatusChanged}
}

// Handle appends one history entry per event
func (h *HistoryRecorder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	entry := document.HistoryEntry{
		ID:         uuid.New(),
		DocumentID: evt.AggregateID(),
		OccurredAt: evt.OccurredAt(),
	}
	switch e := evt.(type) {
	case *document.DocumentCreatedEvent:
		entry.To = document.StatusPending
	case *document.DocumentStatusChangedEvent:
		entry.From = e.From
		entry.To = e.To
		entry.Reason = e.Reason
	default:
		return fmt.Errorf("unexpected event %T", evt)
	}
	return h.repo.Append(ctx, entry)
}

// DocumentMetrics receives document workflow counters
type DocumentMetrics interface {
	RecordDocumentCreated(ctx context.Context)
	RecordTransition(ctx context.Context, from, to string)
}

// MetricsRecorder feeds document events into DocumentMetrics
type MetricsRecorder struct {
	metrics DocumentMetrics
}

// NewMetricsRecorder creates a MetricsRecorder
func NewMetricsRecorder(metrics DocumentMetrics) *MetricsRecorder {
	return &MetricsRecorder{metrics: metrics}
}

// EventTypes returns the events the recorder listens to
func (h *MetricsRecorder) EventTypes() []string {
	return []string{document.EventTypeDocumentCreated, document.EventTypeDocumentStatusChanged}
}

// Handle increments the counter matching the event
func (h *MetricsRecorder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *document.DocumentCreatedEvent:
		h.metrics.RecordDocumentCreated(ctx)
	case *document.DocumentStatusChangedEvent:
		h.metrics.RecordTransition(ctx, string(e.From), string(e.To))
	}
	return nil
}

var (
	_ shared.EventHandler = (*HistoryRecorder)(nil)
	_ shared.EventHandler = (*MetricsRecorder)(nil)
)
