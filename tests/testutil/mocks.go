// Mock repositories shared by application and handler tests.
package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/reconciliation"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindByCUIT(ctx context.Context, cuit string) (*partner.Provider, error) {
	args := m.Called(ctx, cuit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindBySAPAccount(ctx context.Context, account string) (*partner.Provider, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindAll(ctx context.Context, filter partner.ProviderFilter) ([]partner.Provider, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Provider), args.Get(1).(int64), args.Error(2)
}

func (m *MockProviderRepository) ExistsByCUIT(ctx context.Context, cuit string) (bool, error) {
	args := m.Called(ctx, cuit)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepository) Save(ctx context.Context, provider *partner.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

type MockSocietyRepository struct {
	mock.Mock
}

func (m *MockSocietyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Society, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Society), args.Error(1)
}

func (m *MockSocietyRepository) FindByExternalID(ctx context.Context, externalID string) (*partner.Society, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Society), args.Error(1)
}

func (m *MockSocietyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Society, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]partner.Society), args.Error(1)
}

func (m *MockSocietyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Society, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Society), args.Get(1).(int64), args.Error(2)
}

func (m *MockSocietyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocietyRepository) Save(ctx context.Context, society *partner.Society) error {
	return m.Called(ctx, society).Error(0)
}

type MockUserSocietyRepository struct {
	mock.Mock
}

func (m *MockUserSocietyRepository) Assign(ctx context.Context, userID, societyID uuid.UUID) error {
	return m.Called(ctx, userID, societyID).Error(0)
}

func (m *MockUserSocietyRepository) Unassign(ctx context.Context, userID, societyID uuid.UUID) error {
	return m.Called(ctx, userID, societyID).Error(0)
}

func (m *MockUserSocietyRepository) FindSocietyIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter document.Filter) ([]document.Document, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]document.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) ExistsByNumber(ctx context.Context, providerID, documentTypeID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, providerID, documentTypeID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, d *document.Document) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, d *document.Document) error {
	return m.Called(ctx, d).Error(0)
}

type MockDocumentTypeRepository struct {
	mock.Mock
}

func (m *MockDocumentTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByCode(ctx context.Context, code string) (*document.DocumentType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindActive(ctx context.Context) ([]document.DocumentType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]document.DocumentType), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry document.HistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHistoryRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]document.HistoryEntry, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]document.HistoryEntry), args.Error(1)
}

type MockLineSource struct {
	mock.Mock
}

func (m *MockLineSource) FindStandardLines(ctx context.Context, q reconciliation.LineQuery) ([]reconciliation.PurchaseOrderLine, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]reconciliation.PurchaseOrderLine), args.Error(1)
}

func (m *MockLineSource) FindCreditDebitNoteLines(ctx context.Context, q reconciliation.LineQuery) ([]reconciliation.PurchaseOrderLine, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]reconciliation.PurchaseOrderLine), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

var (
	_ identity.UserRepository         = (*MockUserRepository)(nil)
	_ partner.ProviderRepository      = (*MockProviderRepository)(nil)
	_ partner.SocietyRepository       = (*MockSocietyRepository)(nil)
	_ partner.UserSocietyRepository   = (*MockUserSocietyRepository)(nil)
	_ document.Repository             = (*MockDocumentRepository)(nil)
	_ document.DocumentTypeRepository = (*MockDocumentTypeRepository)(nil)
	_ document.HistoryRepository      = (*MockHistoryRepository)(nil)
	_ reconciliation.LineSource       = (*MockLineSource)(nil)
	_ shared.EventPublisher           = (*MockEventPublisher)(nil)
)
