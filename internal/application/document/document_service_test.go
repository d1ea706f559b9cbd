package document

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/lock"
	"github.com/preload/backend/internal/infrastructure/pdf"
	"github.com/preload/backend/internal/infrastructure/storage"
	"github.com/preload/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubScopes struct {
	scope identity.AccessScope
}

func (s *stubScopes) Resolve(context.Context, identity.Principal) (identity.AccessScope, error) {
	return s.scope, nil
}

type stubInspector struct {
	info *pdf.Info
	err  error
}

func (s *stubInspector) Inspect([]byte) (*pdf.Info, error) {
	return s.info, s.err
}

type fixture struct {
	svc       *DocumentService
	docs      *testutil.MockDocumentRepository
	types     *testutil.MockDocumentTypeRepository
	history   *testutil.MockHistoryRepository
	providers *testutil.MockProviderRepository
	societies *testutil.MockSocietyRepository
	events    *testutil.MockEventPublisher
	scopes    *stubScopes
	inspector *stubInspector
	storage   *storage.MemoryObjectStorage
	locker    *lock.LocalLocker

	provider *partner.Provider
	society  *partner.Society
	docType  *document.DocumentType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	provider, err := partner.NewProvider("20123456786", "Norte SA", "100200", "")
	require.NoError(t, err)
	society, err := partner.NewSociety("1000", "SOC-1", "30712345671", "Sociedad Uno", "")
	require.NoError(t, err)

	f := &fixture{
		docs:      new(testutil.MockDocumentRepository),
		types:     new(testutil.MockDocumentTypeRepository),
		history:   new(testutil.MockHistoryRepository),
		providers: new(testutil.MockProviderRepository),
		societies: new(testutil.MockSocietyRepository),
		events:    new(testutil.MockEventPublisher),
		scopes:    &stubScopes{scope: identity.UnrestrictedScope()},
		inspector: &stubInspector{info: &pdf.Info{Pages: 1}},
		storage:   storage.NewMemoryObjectStorage("http://files.test"),
		locker:    lock.NewLocalLocker(),
		provider:  provider,
		society:   society,
		docType:   &document.DocumentType{ID: uuid.New(), Code: "01", Description: "Factura A", Letter: "A", Active: true},
	}
	f.svc = NewDocumentService(DocumentServiceDeps{
		Documents: f.docs,
		Types:     f.types,
		History:   f.history,
		Providers: f.providers,
		Societies: f.societies,
		Scopes:    f.scopes,
		Storage:   f.storage,
		Inspector: f.inspector,
		Locker:    f.locker,
	}, Config{MaxAttachmentSize: 1024, MaxPages: 5, ExportMaxRows: 250, LockTTL: 20 * time.Millisecond}, zap.NewNop())
	f.svc.SetEventPublisher(f.events)
	return f
}

func (f *fixture) newDocument(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.NewDocument(document.NewDocumentInput{
		ProviderID:     f.provider.ID,
		SocietyID:      f.society.ID,
		DocumentTypeID: f.docType.ID,
		Number:         "0001-00001234",
		IssueDate:      time.Now().AddDate(0, 0, -2),
		NetAmount:      decimal.NewFromInt(1000),
		TotalAmount:    decimal.NewFromInt(1210),
		TaxLines:       []document.TaxLine{{Code: "IVA21", Base: decimal.NewFromInt(1000), Amount: decimal.NewFromInt(210)}},
		CAE:            "71234567890123",
	})
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func (f *fixture) createRequest() CreateDocumentRequest {
	return CreateDocumentRequest{
		ProviderID:     f.provider.ID,
		SocietyID:      f.society.ID,
		DocumentTypeID: f.docType.ID,
		Number:         " 0001-00001234 ",
		IssueDate:      time.Now().AddDate(0, 0, -1),
		NetAmount:      decimal.NewFromInt(1000),
		TotalAmount:    decimal.NewFromInt(1210),
		TaxLines:       []TaxLineRequest{{Code: "IVA21", Base: decimal.NewFromInt(1000), Amount: decimal.NewFromInt(210)}},
		CAE:            "71234567890123",
		OrderReferences: []OrderReferenceRequest{
			{PurchaseOrderNumber: "4500001234", Position: 10, ReceptionCode: "5000012345"},
		},
	}
}

func principal(role identity.Role) identity.Principal {
	return identity.Principal{UserID: uuid.New(), Username: "user", Role: role}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected domain error, got %T", err)
	assert.Equal(t, code, de.Code)
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("administrator submits", func(t *testing.T) {
		f := newFixture(t)
		f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)
		f.societies.On("FindByID", ctx, f.society.ID).Return(f.society, nil)
		f.types.On("FindByID", ctx, f.docType.ID).Return(f.docType, nil)
		f.docs.On("ExistsByNumber", ctx, f.provider.ID, f.docType.ID, "0001-00001234").Return(false, nil)
		f.docs.On("Create", ctx, mock.AnythingOfType("*document.Document")).Return(nil)
		f.events.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == document.EventTypeDocumentCreated
		})).Return(nil)

		resp, err := f.svc.Create(ctx, principal(identity.RoleAdministrator), f.createRequest())
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "0001-00001234", resp.Number)
		assert.Equal(t, "ARS", resp.Currency)
		assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(210)))
		require.Len(t, resp.OrderReferences, 1)
		f.docs.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("read-only cannot submit", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, principal(identity.RoleReadOnly), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("provider outside its scope", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.scope = identity.AccessScope{ProviderIDs: []uuid.UUID{uuid.New()}, ProviderAccounts: []string{"999"}}
		f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)
		f.societies.On("FindByID", ctx, f.society.ID).Return(f.society, nil)

		_, err := f.svc.Create(ctx, principal(identity.RoleProvider), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("inactive provider", func(t *testing.T) {
		f := newFixture(t)
		f.provider.Deactivate()
		f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)

		_, err := f.svc.Create(ctx, principal(identity.RoleAdministrator), f.createRequest())
		assertCode(t, err, "PROVIDER_INACTIVE")
	})

	t.Run("duplicate number", func(t *testing.T) {
		f := newFixture(t)
		f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)
		f.societies.On("FindByID", ctx, f.society.ID).Return(f.society, nil)
		f.types.On("FindByID", ctx, f.docType.ID).Return(f.docType, nil)
		f.docs.On("ExistsByNumber", ctx, f.provider.ID, f.docType.ID, "0001-00001234").Return(true, nil)

		_, err := f.svc.Create(ctx, principal(identity.RoleAdministrator), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("amounts do not add up", func(t *testing.T) {
		f := newFixture(t)
		f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)
		f.societies.On("FindByID", ctx, f.society.ID).Return(f.society, nil)
		f.types.On("FindByID", ctx, f.docType.ID).Return(f.docType, nil)
		f.docs.On("ExistsByNumber", ctx, f.provider.ID, f.docType.ID, "0001-00001234").Return(false, nil)

		req := f.createRequest()
		req.TotalAmount = decimal.NewFromInt(1300)
		_, err := f.svc.Create(ctx, principal(identity.RoleAdministrator), req)
		assertCode(t, err, "AMOUNT_MISMATCH")
	})
}

func TestDocumentService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doc := f.newDocument(t)
	f.docs.On("FindByID", ctx, doc.ID).Return(doc, nil)

	resp, err := f.svc.GetByID(ctx, principal(identity.RoleReadOnly), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, resp.ID)

	f.scopes.scope = identity.AccessScope{ProviderIDs: []uuid.UUID{uuid.New()}, ProviderAccounts: []string{"999"}}
	_, err = f.svc.GetByID(ctx, principal(identity.RoleProvider), doc.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	f.scopes.scope = identity.AccessScope{ProviderIDs: []uuid.UUID{f.provider.ID}, ProviderAccounts: []string{"100200"}}
	_, err = f.svc.GetByID(ctx, principal(identity.RoleProvider), doc.ID)
	assert.NoError(t, err)
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("society scope restricts societies", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.scope = identity.AccessScope{SocietyIDs: []uuid.UUID{f.society.ID}, SocietyCodes: []string{"1000"}}
		doc := f.newDocument(t)
		f.docs.On("FindAll", ctx, mock.MatchedBy(func(filter document.Filter) bool {
			return len(filter.SocietyIDs) == 1 && filter.SocietyIDs[0] == f.society.ID &&
				filter.ProviderIDs == nil &&
				len(filter.Statuses) == 1 && filter.Statuses[0] == document.StatusPending &&
				filter.IssuedTo != nil && filter.IssuedTo.Day() == 31
		})).Return([]document.Document{*doc}, int64(1), nil)

		page, err := f.svc.List(ctx, principal(identity.RoleSociety), DocumentListFilter{
			Statuses: []string{"pending"},
			IssuedTo: "2026-03-31",
		})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		f.docs.AssertExpectations(t)
	})

	t.Run("provider asking for another provider gets nothing", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.scope = identity.AccessScope{ProviderIDs: []uuid.UUID{f.provider.ID}, ProviderAccounts: []string{"100200"}}

		page, err := f.svc.List(ctx, principal(identity.RoleProvider), DocumentListFilter{ProviderID: uuid.NewString()})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
		f.docs.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("empty scope", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.scope = identity.AccessScope{}

		page, err := f.svc.List(ctx, principal(identity.RoleSociety), DocumentListFilter{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		f.docs.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("malformed identifier", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.List(ctx, principal(identity.RoleAdministrator), DocumentListFilter{SocietyID: "nope"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestDocumentService_History(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doc := f.newDocument(t)
	f.docs.On("FindByID", ctx, doc.ID).Return(doc, nil)
	f.history.On("FindByDocument", ctx, doc.ID).Return([]document.HistoryEntry{
		{ID: uuid.New(), DocumentID: doc.ID, From: document.StatusPending, To: document.StatusObserved, Reason: "falta OC", OccurredAt: time.Now()},
	}, nil)

	entries, err := f.svc.History(ctx, principal(identity.RoleAdministrator), doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "OBSERVED", entries[0].To)
	assert.Equal(t, "falta OC", entries[0].Reason)
}

func TestDocumentService_ListTypes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.types.On("FindActive", ctx).Return([]document.DocumentType{*f.docType}, nil)

	types, err := f.svc.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "01", types[0].Code)
}
