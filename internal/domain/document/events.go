package document

import (
	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateType = "Document"

	EventTypeDocumentCreated       = "DocumentCreated"
	EventTypeDocumentStatusChanged = "DocumentStatusChanged"
)

// DocumentCreatedEvent is raised when a document is submitted
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	ProviderID     uuid.UUID       `json:"provider_id"`
	SocietyID      uuid.UUID       `json:"society_id"`
	DocumentTypeID uuid.UUID       `json:"document_type_id"`
	Number         string          `json:"number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedBy      uuid.UUID       `json:"created_by"`
}

// NewDocumentCreatedEvent builds the event from a freshly created document
func NewDocumentCreatedEvent(d *Document) *DocumentCreatedEvent {
	e := &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateType, d.ID),
		ProviderID:      d.ProviderID,
		SocietyID:       d.SocietyID,
		Number:          d.Number,
		TotalAmount:     d.TotalAmount,
		CreatedBy:       d.CreatedBy,
	}
	if d.DocumentTypeID != nil {
		e.DocumentTypeID = *d.DocumentTypeID
	}
	return e
}

// DocumentStatusChangedEvent is raised on every workflow transition
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	From   Status `json:"from"`
	To     Status `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// NewDocumentStatusChangedEvent builds a transition event
func NewDocumentStatusChangedEvent(d *Document, from, to Status, reason string) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, AggregateType, d.ID),
		From:            from,
		To:              to,
		Reason:          reason,
	}
}
