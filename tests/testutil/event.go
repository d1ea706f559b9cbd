package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/preload/backend/internal/domain/shared"
)

// RecordingEventHandler records every event it receives
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
}

// NewRecordingEventHandler creates a handler subscribed to eventTypes
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return nil
}

// Handled returns a copy of the recorded events
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// WaitForEventCount waits until the handler has seen at least count events
func WaitForEventCount(t *testing.T, h *RecordingEventHandler, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitForCondition(t, func() bool {
		return len(h.Handled()) >= count
	}, timeout, 10*time.Millisecond)
}
