package document

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	numberPattern   = regexp.MustCompile(`^\d{4,5}-\d{8}$`)
	caePattern      = regexp.MustCompile(`^\d{14}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	// totalTolerance absorbs rounding between the printed voucher and its tax lines
	totalTolerance = decimal.RequireFromString("0.01")
)

// ValidNumber reports whether n has the point-of-sale/number shape "0001-00001234"
func ValidNumber(n string) bool {
	return numberPattern.MatchString(n)
}

// TaxLine is one tax (IVA rate, perception, ...) printed on the document
type TaxLine struct {
	Code   string
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// OrderReference links the document to a purchase-order position being invoiced
type OrderReference struct {
	PurchaseOrderNumber string
	Position            int
	ReceptionCode       string
	QuantityToInvoice   *decimal.Decimal
}

// Attachment is the stored PDF of the document
type Attachment struct {
	StorageKey  string
	FileName    string
	ContentType string
	Size        int64
	Pages       int
	UploadedAt  time.Time
}

// Document is a billing document submitted for preload
type Document struct {
	shared.BaseAggregateRoot
	ProviderID      uuid.UUID
	SocietyID       uuid.UUID
	DocumentTypeID  *uuid.UUID
	Number          string
	IssueDate       time.Time
	DueDate         *time.Time
	Currency        string
	NetAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	TaxLines        []TaxLine
	CAE             string
	CAEExpiration   *time.Time
	OrderReferences []OrderReference
	Attachment      *Attachment
	Status          Status
	Observation     string
	RejectionReason string
	PaidAt          *time.Time
	CreatedBy       uuid.UUID
}

// NewDocumentInput carries the metadata of a submission
type NewDocumentInput struct {
	ProviderID      uuid.UUID
	SocietyID       uuid.UUID
	DocumentTypeID  uuid.UUID
	Number          string
	IssueDate       time.Time
	DueDate         *time.Time
	Currency        string
	NetAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	TaxLines        []TaxLine
	CAE             string
	CAEExpiration   *time.Time
	OrderReferences []OrderReference
	CreatedBy       uuid.UUID
}

// NewDocument validates the metadata and creates a PENDING document
func NewDocument(in NewDocumentInput) (*Document, error) {
	if in.ProviderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider is required")
	}
	if in.SocietyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society is required")
	}
	if in.DocumentTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is required")
	}
	number := strings.TrimSpace(in.Number)
	if !ValidNumber(number) {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number must look like 0001-00001234")
	}
	if in.IssueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ISSUE_DATE", "Issue date is required")
	}
	if in.IssueDate.After(time.Now().Add(24 * time.Hour)) {
		return nil, shared.NewDomainError("INVALID_ISSUE_DATE", "Issue date cannot be in the future")
	}
	if in.DueDate != nil && in.DueDate.Before(in.IssueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "ARS"
	}
	if !currencyPattern.MatchString(currency) {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be an ISO 4217 code")
	}
	if !caePattern.MatchString(in.CAE) {
		return nil, shared.NewDomainError("INVALID_CAE", "CAE/CAI must have 14 digits")
	}
	if err := validateAmounts(in.NetAmount, in.TotalAmount, in.TaxLines); err != nil {
		return nil, err
	}
	if err := validateReferences(in.OrderReferences); err != nil {
		return nil, err
	}

	typeID := in.DocumentTypeID
	d := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProviderID:        in.ProviderID,
		SocietyID:         in.SocietyID,
		DocumentTypeID:    &typeID,
		Number:            number,
		IssueDate:         in.IssueDate,
		DueDate:           in.DueDate,
		Currency:          currency,
		NetAmount:         in.NetAmount,
		TotalAmount:       in.TotalAmount,
		TaxLines:          in.TaxLines,
		CAE:               in.CAE,
		CAEExpiration:     in.CAEExpiration,
		OrderReferences:   in.OrderReferences,
		Status:            StatusPending,
		CreatedBy:         in.CreatedBy,
	}
	d.AddDomainEvent(NewDocumentCreatedEvent(d))
	return d, nil
}

func validateAmounts(net, total decimal.Decimal, taxes []TaxLine) error {
	if net.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Net amount cannot be negative")
	}
	if !total.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	sum := net
	for _, t := range taxes {
		if strings.TrimSpace(t.Code) == "" {
			return shared.NewDomainError("INVALID_TAX_LINE", "Tax code cannot be empty")
		}
		if t.Amount.IsNegative() || t.Base.IsNegative() {
			return shared.NewDomainError("INVALID_TAX_LINE", "Tax amounts cannot be negative")
		}
		sum = sum.Add(t.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(totalTolerance) {
		return shared.NewDomainError("AMOUNT_MISMATCH", "Total amount must equal net amount plus taxes")
	}
	return nil
}

func validateReferences(refs []OrderReference) error {
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		if strings.TrimSpace(r.PurchaseOrderNumber) == "" {
			return shared.NewDomainError("INVALID_REFERENCE", "Purchase order number cannot be empty")
		}
		if r.Position <= 0 {
			return shared.NewDomainError("INVALID_REFERENCE", "Purchase order position must be positive")
		}
		if r.QuantityToInvoice != nil && r.QuantityToInvoice.IsNegative() {
			return shared.NewDomainError("INVALID_REFERENCE", "Quantity to invoice cannot be negative")
		}
		key := r.PurchaseOrderNumber + "/" + strconv.Itoa(r.Position)
		if _, dup := seen[key]; dup {
			return shared.NewDomainError("INVALID_REFERENCE", "Purchase order position referenced twice")
		}
		seen[key] = struct{}{}
	}
	return nil
}

// TaxTotal sums the tax lines
func (d *Document) TaxTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range d.TaxLines {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Attach stores the PDF reference. Only editable documents accept a new file.
func (d *Document) Attach(a Attachment) error {
	if d.Status != StatusPending && d.Status != StatusObserved {
		return shared.NewDomainError("INVALID_STATE", "Attachment can only change while the document is pending or observed")
	}
	if a.StorageKey == "" {
		return shared.NewDomainError("INVALID_ATTACHMENT", "Attachment storage key is required")
	}
	if a.UploadedAt.IsZero() {
		a.UploadedAt = time.Now()
	}
	d.Attachment = &a
	d.Touch()
	return nil
}

// Preload accepts the document into the SAP preload queue
func (d *Document) Preload() error {
	if d.Attachment == nil {
		return shared.NewDomainError("ATTACHMENT_REQUIRED", "Document needs a PDF attachment before preload")
	}
	return d.transition(StatusPreloaded, "")
}

// Observe returns the document to its submitter with a remark
func (d *Document) Observe(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "An observation is required")
	}
	if err := d.transition(StatusObserved, reason); err != nil {
		return err
	}
	d.Observation = reason
	return nil
}

// Resubmit sends an observed document back to review
func (d *Document) Resubmit() error {
	return d.transition(StatusPending, "")
}

// Reject closes the document with a reason
func (d *Document) Reject(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A rejection reason is required")
	}
	if err := d.transition(StatusRejected, reason); err != nil {
		return err
	}
	d.RejectionReason = reason
	return nil
}

// MarkPaid records the payment of a preloaded document
func (d *Document) MarkPaid(at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	if err := d.transition(StatusPaid, ""); err != nil {
		return err
	}
	d.PaidAt = &at
	return nil
}

// Cancel withdraws the document
func (d *Document) Cancel() error {
	return d.transition(StatusCancelled, "")
}

func (d *Document) transition(target Status, reason string) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move document from "+d.Status.String()+" to "+target.String())
	}
	from := d.Status
	d.Status = target
	d.Touch()
	d.AddDomainEvent(NewDocumentStatusChangedEvent(d, from, target, reason))
	return nil
}
