package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
)

// Filter narrows document listings. Empty scope slices mean no restriction;
// callers apply role scoping before reaching the repository.
type Filter struct {
	shared.Filter
	Statuses       []Status
	ProviderIDs    []uuid.UUID
	SocietyIDs     []uuid.UUID
	DocumentTypeID *uuid.UUID
	IssuedFrom     *time.Time
	IssuedTo       *time.Time
}

// HistoryEntry is one persisted workflow transition
type HistoryEntry struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	From       Status
	To         Status
	Reason     string
	OccurredAt time.Time
}

// Repository persists documents
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindAll(ctx context.Context, filter Filter) ([]Document, int64, error)
	ExistsByNumber(ctx context.Context, providerID, documentTypeID uuid.UUID, number string) (bool, error)
	Create(ctx context.Context, d *Document) error
	// SaveWithLock updates d only if the stored version equals d.Version,
	// then increments it
	SaveWithLock(ctx context.Context, d *Document) error
}

// HistoryRepository stores the transition log of documents
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]HistoryEntry, error)
}
