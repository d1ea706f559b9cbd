package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDocumentType(t *testing.T, db *gorm.DB, code string, creditDebitNote bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO document_types (id, code, description, letter, credit_debit_note, active) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), code, "Tipo "+code, "A", creditDebitNote, true,
	).Error)
	return id
}

func newTestDocument(t *testing.T, providerID, societyID, typeID uuid.UUID, number string, issued time.Time) *document.Document {
	t.Helper()
	qty := decimal.NewFromInt(6)
	d, err := document.NewDocument(document.NewDocumentInput{
		ProviderID:     providerID,
		SocietyID:      societyID,
		DocumentTypeID: typeID,
		Number:         number,
		IssueDate:      issued,
		NetAmount:      decimal.RequireFromString("1000"),
		TotalAmount:    decimal.RequireFromString("1210"),
		TaxLines: []document.TaxLine{
			{Code: "IVA21", Base: decimal.RequireFromString("1000"), Amount: decimal.RequireFromString("210")},
		},
		CAE: "71234567890123",
		OrderReferences: []document.OrderReference{
			{PurchaseOrderNumber: "4500000001", Position: 10, ReceptionCode: "5000000001", QuantityToInvoice: &qty},
		},
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	return d
}

func TestGormDocumentRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	typeID := seedDocumentType(t, db, "01", false)

	d := newTestDocument(t, uuid.New(), uuid.New(), typeID, "0001-00000123", time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, repo.Create(ctx, d))

	found, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "0001-00000123", found.Number)
	assert.Equal(t, document.StatusPending, found.Status)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("1210")))
	require.Len(t, found.TaxLines, 1)
	assert.Equal(t, "IVA21", found.TaxLines[0].Code)
	require.Len(t, found.OrderReferences, 1)
	assert.Equal(t, 10, found.OrderReferences[0].Position)
	require.NotNil(t, found.OrderReferences[0].QuantityToInvoice)
	assert.True(t, found.OrderReferences[0].QuantityToInvoice.Equal(decimal.NewFromInt(6)))
	assert.Nil(t, found.Attachment)
	require.NotNil(t, found.DocumentTypeID)
	assert.Equal(t, typeID, *found.DocumentTypeID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormDocumentRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	typeID := seedDocumentType(t, db, "01", false)

	d := newTestDocument(t, uuid.New(), uuid.New(), typeID, "0001-00000123", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, d))

	t.Run("persists the transition and bumps the version", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Attach(document.Attachment{
			StorageKey:  "documents/x.pdf",
			FileName:    "factura.pdf",
			ContentType: "application/pdf",
			Size:        2048,
			Pages:       2,
		}))
		require.NoError(t, loaded.Preload())
		require.NoError(t, repo.SaveWithLock(ctx, loaded))
		assert.Equal(t, 2, loaded.Version)

		reloaded, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StatusPreloaded, reloaded.Status)
		assert.Equal(t, 2, reloaded.Version)
		require.NotNil(t, reloaded.Attachment)
		assert.Equal(t, "documents/x.pdf", reloaded.Attachment.StorageKey)
		assert.Equal(t, 2, reloaded.Attachment.Pages)
		assert.Len(t, reloaded.TaxLines, 1)
		assert.Len(t, reloaded.OrderReferences, 1)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		stale.Version = 1
		require.NoError(t, stale.Reject("duplicated"))

		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		current, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StatusPreloaded, current.Status)
	})

	t.Run("missing document", func(t *testing.T) {
		ghost := newTestDocument(t, uuid.New(), uuid.New(), typeID, "0001-00000999", time.Now().UTC())
		err := repo.SaveWithLock(ctx, ghost)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDocumentRepository_ExistsByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	typeID := seedDocumentType(t, db, "01", false)
	providerID := uuid.New()

	d := newTestDocument(t, providerID, uuid.New(), typeID, "0001-00000123", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, d))

	exists, err := repo.ExistsByNumber(ctx, providerID, typeID, "0001-00000123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, uuid.New(), typeID, "0001-00000123")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, d.Cancel())
	require.NoError(t, repo.SaveWithLock(ctx, d))
	exists, err = repo.ExistsByNumber(ctx, providerID, typeID, "0001-00000123")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormDocumentRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	typeID := seedDocumentType(t, db, "01", false)

	providerA, providerB := uuid.New(), uuid.New()
	society := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	d1 := newTestDocument(t, providerA, society, typeID, "0001-00000001", base)
	d2 := newTestDocument(t, providerA, society, typeID, "0001-00000002", base.AddDate(0, 0, 10))
	d3 := newTestDocument(t, providerB, society, typeID, "0002-00000001", base.AddDate(0, 0, 20))
	for _, d := range []*document.Document{d1, d2, d3} {
		require.NoError(t, repo.Create(ctx, d))
	}
	require.NoError(t, d2.Observe("missing PO"))
	require.NoError(t, repo.SaveWithLock(ctx, d2))

	t.Run("by provider", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, document.Filter{ProviderIDs: []uuid.UUID{providerA}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("by status", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, document.Filter{Statuses: []document.Status{document.StatusObserved}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, d2.ID, items[0].ID)
		assert.Equal(t, "missing PO", items[0].Observation)
	})

	t.Run("by issue date range", func(t *testing.T) {
		from := base.AddDate(0, 0, 5)
		items, total, err := repo.FindAll(ctx, document.Filter{IssuedFrom: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("ordered by number", func(t *testing.T) {
		items, _, err := repo.FindAll(ctx, document.Filter{Filter: shared.Filter{OrderBy: "number", OrderDir: "asc"}})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "0001-00000001", items[0].Number)
		assert.Equal(t, "0002-00000001", items[2].Number)
		assert.Len(t, items[0].TaxLines, 1)
	})
}

func TestGormDocumentTypeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentTypeRepository(db)
	ctx := context.Background()

	invoice := seedDocumentType(t, db, "01", false)
	seedDocumentType(t, db, "03", true)

	found, err := repo.FindByID(ctx, invoice)
	require.NoError(t, err)
	assert.False(t, found.IsCreditDebitNote())

	note, err := repo.FindByCode(ctx, "03")
	require.NoError(t, err)
	assert.True(t, note.IsCreditDebitNote())

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "01", active[0].Code)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormDocumentHistoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentHistoryRepository(db)
	ctx := context.Background()
	docID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Append(ctx, document.HistoryEntry{
		DocumentID: docID, From: document.StatusPending, To: document.StatusObserved, Reason: "blurry", OccurredAt: now,
	}))
	require.NoError(t, repo.Append(ctx, document.HistoryEntry{
		DocumentID: docID, From: document.StatusObserved, To: document.StatusPending, OccurredAt: now.Add(time.Minute),
	}))

	entries, err := repo.FindByDocument(ctx, docID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, document.StatusObserved, entries[0].To)
	assert.Equal(t, "blurry", entries[0].Reason)
	assert.NotEqual(t, uuid.Nil, entries[0].ID)
	assert.Equal(t, document.StatusPending, entries[1].To)
}
