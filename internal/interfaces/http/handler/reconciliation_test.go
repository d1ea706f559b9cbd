package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appreconciliation "github.com/preload/backend/internal/application/reconciliation"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/reconciliation"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/export"
	"github.com/preload/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReconciliationRouter(t *testing.T, scope identity.AccessScope) (*gin.Engine, *document.Document, *testutil.MockLineSource) {
	t.Helper()
	society, err := partner.NewSociety("1000", "SOC-1", "30712345671", "Sociedad Uno", "")
	require.NoError(t, err)
	docType := &document.DocumentType{ID: uuid.New(), Code: "01", Letter: "A", Active: true}
	typeID := docType.ID
	doc := &document.Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProviderID:        uuid.New(),
		SocietyID:         society.ID,
		DocumentTypeID:    &typeID,
		Number:            "0001-00000042",
		Status:            document.StatusPending,
	}

	docs := new(testutil.MockDocumentRepository)
	types := new(testutil.MockDocumentTypeRepository)
	societies := new(testutil.MockSocietyRepository)
	lines := new(testutil.MockLineSource)
	docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	types.On("FindByID", mock.Anything, docType.ID).Return(docType, nil)
	societies.On("FindByExternalID", mock.Anything, "SOC-1").Return(society, nil)

	svc := appreconciliation.NewReconciliationService(docs, types, societies, lines, fixedScope{scope: scope}, nil, zap.NewNop())
	h := NewReconciliationHandler(svc)

	r := gin.New()
	r.Use(asPrincipal(adminPrincipal()))
	r.GET("/reconciliations", h.Reconcile)
	r.GET("/reconciliations/export", h.Export)
	return r, doc, lines
}

func receivedLine() reconciliation.PurchaseOrderLine {
	toInvoice := decimal.NewFromInt(6)
	reception := "R1"
	return reconciliation.PurchaseOrderLine{
		OrderID:           "4500000001",
		DocumentNumber:    "A1",
		Position:          10,
		QuantityOrdered:   decimal.NewFromInt(10),
		QuantityReceived:  decimal.NewFromInt(10),
		QuantityInvoiced:  decimal.NewFromInt(4),
		QuantityToInvoice: &toInvoice,
		ReceptionCode:     &reception,
		OriginalAmount:    decimal.NewFromInt(100),
		SocietyCode:       "1000",
		ProviderCode:      "100200",
	}
}

func TestReconciliationHandler_Reconcile(t *testing.T) {
	r, doc, lines := newReconciliationRouter(t, identity.UnrestrictedScope())
	lines.On("FindStandardLines", mock.Anything, mock.Anything).
		Return([]reconciliation.PurchaseOrderLine{receivedLine()}, nil)

	w := doJSON(t, r, http.MethodGet, "/reconciliations?provider_id=100200&society_id=SOC-1&document_id="+doc.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out appreconciliation.ReconciliationResponse
	dataAs(t, w, &out)
	assert.Equal(t, "standard", out.Variant)
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Rows, 2)
}

func TestReconciliationHandler_MissingParams(t *testing.T) {
	r, _, lines := newReconciliationRouter(t, identity.UnrestrictedScope())

	w := doJSON(t, r, http.MethodGet, "/reconciliations?provider_id=100200", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/reconciliations?provider_id=100200&society_id=SOC-1&document_id=42", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	lines.AssertNotCalled(t, "FindStandardLines", mock.Anything, mock.Anything)
}

func TestReconciliationHandler_OutOfScope(t *testing.T) {
	scope := identity.AccessScope{ProviderAccounts: []string{"999999"}}
	r, doc, lines := newReconciliationRouter(t, scope)

	w := doJSON(t, r, http.MethodGet, "/reconciliations?provider_id=100200&society_id=SOC-1&document_id="+doc.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	lines.AssertNotCalled(t, "FindStandardLines", mock.Anything, mock.Anything)
}

func TestReconciliationHandler_Export(t *testing.T) {
	r, doc, lines := newReconciliationRouter(t, identity.UnrestrictedScope())
	lines.On("FindStandardLines", mock.Anything, mock.Anything).
		Return([]reconciliation.PurchaseOrderLine{receivedLine()}, nil)

	w := doJSON(t, r, http.MethodGet, "/reconciliations/export?provider_id=100200&society_id=SOC-1&document_id="+doc.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), doc.ID.String())
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}
