package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() NewDocumentInput {
	return NewDocumentInput{
		ProviderID:     uuid.New(),
		SocietyID:      uuid.New(),
		DocumentTypeID: uuid.New(),
		Number:         "0003-00001234",
		IssueDate:      time.Now().AddDate(0, 0, -2),
		NetAmount:      decimal.RequireFromString("1000"),
		TotalAmount:    decimal.RequireFromString("1210"),
		TaxLines: []TaxLine{
			{Code: "IVA21", Base: decimal.RequireFromString("1000"), Amount: decimal.RequireFromString("210")},
		},
		CAE:       "74123456789012",
		CreatedBy: uuid.New(),
	}
}

func newPending(t *testing.T) *Document {
	t.Helper()
	d, err := NewDocument(validInput())
	require.NoError(t, err)
	return d
}

func TestNewDocument(t *testing.T) {
	t.Run("creates pending document with event", func(t *testing.T) {
		d := newPending(t)
		assert.Equal(t, StatusPending, d.Status)
		assert.Equal(t, "ARS", d.Currency)
		assert.Equal(t, 1, d.Version)
		require.NotNil(t, d.DocumentTypeID)

		events := d.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDocumentCreated, events[0].EventType())
	})

	t.Run("accepts five digit point of sale", func(t *testing.T) {
		in := validInput()
		in.Number = "00012-00000001"
		_, err := NewDocument(in)
		assert.NoError(t, err)
	})

	t.Run("accepts rounding difference within a cent", func(t *testing.T) {
		in := validInput()
		in.TotalAmount = decimal.RequireFromString("1210.01")
		_, err := NewDocument(in)
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		mutate func(*NewDocumentInput)
		code   string
	}{
		{"missing provider", func(in *NewDocumentInput) { in.ProviderID = uuid.Nil }, "INVALID_PROVIDER"},
		{"missing society", func(in *NewDocumentInput) { in.SocietyID = uuid.Nil }, "INVALID_SOCIETY"},
		{"missing type", func(in *NewDocumentInput) { in.DocumentTypeID = uuid.Nil }, "INVALID_DOCUMENT_TYPE"},
		{"bad number", func(in *NewDocumentInput) { in.Number = "3-1234" }, "INVALID_NUMBER"},
		{"future issue date", func(in *NewDocumentInput) { in.IssueDate = time.Now().AddDate(0, 0, 5) }, "INVALID_ISSUE_DATE"},
		{"due before issue", func(in *NewDocumentInput) {
			due := in.IssueDate.AddDate(0, 0, -1)
			in.DueDate = &due
		}, "INVALID_DUE_DATE"},
		{"bad cae", func(in *NewDocumentInput) { in.CAE = "123" }, "INVALID_CAE"},
		{"bad currency", func(in *NewDocumentInput) { in.Currency = "pesos" }, "INVALID_CURRENCY"},
		{"total mismatch", func(in *NewDocumentInput) { in.TotalAmount = decimal.RequireFromString("1300") }, "AMOUNT_MISMATCH"},
		{"zero total", func(in *NewDocumentInput) {
			in.NetAmount = decimal.Zero
			in.TotalAmount = decimal.Zero
			in.TaxLines = nil
		}, "INVALID_AMOUNT"},
		{"empty tax code", func(in *NewDocumentInput) { in.TaxLines[0].Code = "" }, "INVALID_TAX_LINE"},
		{"duplicate reference", func(in *NewDocumentInput) {
			in.OrderReferences = []OrderReference{
				{PurchaseOrderNumber: "4500000001", Position: 10},
				{PurchaseOrderNumber: "4500000001", Position: 10},
			}
		}, "INVALID_REFERENCE"},
		{"zero position", func(in *NewDocumentInput) {
			in.OrderReferences = []OrderReference{{PurchaseOrderNumber: "4500000001", Position: 0}}
		}, "INVALID_REFERENCE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			d, err := NewDocument(in)
			assert.Nil(t, d)
			assertCode(t, err, tt.code)
		})
	}
}

func TestDocument_Workflow(t *testing.T) {
	t.Run("preload requires attachment", func(t *testing.T) {
		d := newPending(t)
		err := d.Preload()
		assertCode(t, err, "ATTACHMENT_REQUIRED")
		assert.Equal(t, StatusPending, d.Status)
	})

	t.Run("pending to preloaded to paid", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Attach(Attachment{StorageKey: "documents/x.pdf", FileName: "x.pdf", Pages: 1}))
		require.NoError(t, d.Preload())
		assert.Equal(t, StatusPreloaded, d.Status)

		paidAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, d.MarkPaid(paidAt))
		assert.Equal(t, StatusPaid, d.Status)
		assert.Equal(t, paidAt, *d.PaidAt)

		// created + two transitions
		assert.Len(t, d.GetDomainEvents(), 3)
	})

	t.Run("observe then resubmit", func(t *testing.T) {
		d := newPending(t)
		assertCode(t, d.Observe("  "), "REASON_REQUIRED")

		require.NoError(t, d.Observe("Falta remito"))
		assert.Equal(t, StatusObserved, d.Status)
		assert.Equal(t, "Falta remito", d.Observation)

		require.NoError(t, d.Attach(Attachment{StorageKey: "k"}))
		require.NoError(t, d.Resubmit())
		assert.Equal(t, StatusPending, d.Status)
	})

	t.Run("reject records reason", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Reject("CAE vencido"))
		assert.Equal(t, "CAE vencido", d.RejectionReason)
		assert.True(t, d.Status.IsTerminal())

		assertCode(t, d.Cancel(), "INVALID_STATE")
		assertCode(t, d.Attach(Attachment{StorageKey: "k"}), "INVALID_STATE")
	})

	t.Run("paid cannot be cancelled", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Attach(Attachment{StorageKey: "k"}))
		require.NoError(t, d.Preload())
		assertCode(t, d.Cancel(), "INVALID_STATE")
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	for _, s := range []Status{StatusPaid, StatusRejected, StatusCancelled} {
		for _, target := range AllStatuses() {
			assert.False(t, s.CanTransitionTo(target), "%s -> %s", s, target)
		}
	}
	assert.True(t, StatusPending.CanTransitionTo(StatusPreloaded))
	assert.False(t, StatusPending.CanTransitionTo(StatusPaid))
	assert.True(t, StatusObserved.CanTransitionTo(StatusPending))
	assert.False(t, Status("DRAFT").IsValid())
}

func TestDocument_TaxTotal(t *testing.T) {
	d := newPending(t)
	d.TaxLines = append(d.TaxLines, TaxLine{Code: "PERC_IIBB", Amount: decimal.RequireFromString("30.5")})
	assert.Equal(t, "240.5", d.TaxTotal().String())
}
