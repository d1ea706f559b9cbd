package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// TaxLineRequest is one tax printed on the document
// @Description Tax printed on the document
type TaxLineRequest struct {
	Code   string          `json:"code" binding:"required,max=10"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderReferenceRequest links the document to a purchase-order position
// @Description Purchase-order position covered by the document
type OrderReferenceRequest struct {
	PurchaseOrderNumber string           `json:"purchase_order_number" binding:"required,max=20" example:"4500012345"`
	Position            int              `json:"position" binding:"required,min=1"`
	ReceptionCode       string           `json:"reception_code" binding:"max=20"`
	QuantityToInvoice   *decimal.Decimal `json:"quantity_to_invoice"`
}

// CreateDocumentRequest represents a document submission
// @Description Request body for submitting a document
type CreateDocumentRequest struct {
	ProviderID      uuid.UUID               `json:"provider_id" binding:"required"`
	SocietyID       uuid.UUID               `json:"society_id" binding:"required"`
	DocumentTypeID  uuid.UUID               `json:"document_type_id" binding:"required"`
	Number          string                  `json:"number" binding:"required,doc_number" example:"0001-00001234"`
	IssueDate       time.Time               `json:"issue_date" binding:"required"`
	DueDate         *time.Time              `json:"due_date"`
	Currency        string                  `json:"currency" binding:"omitempty,len=3" example:"ARS"`
	NetAmount       decimal.Decimal         `json:"net_amount"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	TaxLines        []TaxLineRequest        `json:"tax_lines" binding:"dive"`
	CAE             string                  `json:"cae" binding:"required,len=14,numeric" example:"74123456789012"`
	CAEExpiration   *time.Time              `json:"cae_expiration"`
	OrderReferences []OrderReferenceRequest `json:"order_references" binding:"dive"`
}

// DocumentListFilter narrows document listings. Identifiers arrive as query
// strings and are parsed by the service.
type DocumentListFilter struct {
	Statuses       []string `form:"status" binding:"omitempty,dive,oneof=PENDING PRELOADED OBSERVED REJECTED PAID CANCELLED"`
	ProviderID     string   `form:"provider_id" binding:"omitempty,uuid"`
	SocietyID      string   `form:"society_id" binding:"omitempty,uuid"`
	DocumentTypeID string   `form:"document_type_id" binding:"omitempty,uuid"`
	IssuedFrom     string   `form:"issued_from" binding:"omitempty,datetime=2006-01-02"`
	IssuedTo       string   `form:"issued_to" binding:"omitempty,datetime=2006-01-02"`
	Search         string   `form:"search"`
	Page           int      `form:"page" binding:"omitempty,min=1"`
	PageSize       int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string   `form:"order_by" binding:"omitempty,oneof=created_at issue_date due_date number total_amount status"`
	OrderDir       string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransitionRequest carries the optional inputs of a workflow action
// @Description Optional inputs of a workflow action
type TransitionRequest struct {
	Reason string     `json:"reason" binding:"max=500" example:"Amounts do not match the purchase order"`
	PaidAt *time.Time `json:"paid_at"`
}

// UploadAttachmentInput is a PDF received for a document
type UploadAttachmentInput struct {
	DocumentID  uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Content     []byte
}

// =============================================================================
// Response DTOs
// =============================================================================

// TaxLineResponse represents a tax line in API responses
type TaxLineResponse struct {
	Code   string          `json:"code"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderReferenceResponse represents a purchase-order reference in API responses
type OrderReferenceResponse struct {
	PurchaseOrderNumber string           `json:"purchase_order_number"`
	Position            int              `json:"position"`
	ReceptionCode       string           `json:"reception_code"`
	QuantityToInvoice   *decimal.Decimal `json:"quantity_to_invoice"`
}

// AttachmentResponse describes the stored PDF without exposing its location
type AttachmentResponse struct {
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Pages       int       `json:"pages"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentResponse represents a document in API responses
// @Description Document details returned by the API
type DocumentResponse struct {
	ID              uuid.UUID                `json:"id"`
	ProviderID      uuid.UUID                `json:"provider_id"`
	SocietyID       uuid.UUID                `json:"society_id"`
	DocumentTypeID  *uuid.UUID               `json:"document_type_id"`
	Number          string                   `json:"number"`
	IssueDate       time.Time                `json:"issue_date"`
	DueDate         *time.Time               `json:"due_date,omitempty"`
	Currency        string                   `json:"currency"`
	NetAmount       decimal.Decimal          `json:"net_amount"`
	TaxAmount       decimal.Decimal          `json:"tax_amount"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	TaxLines        []TaxLineResponse        `json:"tax_lines"`
	CAE             string                   `json:"cae"`
	CAEExpiration   *time.Time               `json:"cae_expiration,omitempty"`
	OrderReferences []OrderReferenceResponse `json:"order_references"`
	Attachment      *AttachmentResponse      `json:"attachment,omitempty"`
	Status          string                   `json:"status"`
	Observation     string                   `json:"observation,omitempty"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
	PaidAt          *time.Time               `json:"paid_at,omitempty"`
	CreatedBy       uuid.UUID                `json:"created_by"`
	Version         int                      `json:"version"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ToDocumentResponse converts a domain document
func ToDocumentResponse(d *document.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:              d.ID,
		ProviderID:      d.ProviderID,
		SocietyID:       d.SocietyID,
		DocumentTypeID:  d.DocumentTypeID,
		Number:          d.Number,
		IssueDate:       d.IssueDate,
		DueDate:         d.DueDate,
		Currency:        d.Currency,
		NetAmount:       d.NetAmount,
		TaxAmount:       d.TaxTotal(),
		TotalAmount:     d.TotalAmount,
		TaxLines:        make([]TaxLineResponse, len(d.TaxLines)),
		CAE:             d.CAE,
		CAEExpiration:   d.CAEExpiration,
		OrderReferences: make([]OrderReferenceResponse, len(d.OrderReferences)),
		Status:          d.Status.String(),
		Observation:     d.Observation,
		RejectionReason: d.RejectionReason,
		PaidAt:          d.PaidAt,
		CreatedBy:       d.CreatedBy,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for i, t := range d.TaxLines {
		resp.TaxLines[i] = TaxLineResponse{Code: t.Code, Base: t.Base, Amount: t.Amount}
	}
	for i, r := range d.OrderReferences {
		resp.OrderReferences[i] = OrderReferenceResponse{
			PurchaseOrderNumber: r.PurchaseOrderNumber,
			Position:            r.Position,
			ReceptionCode:       r.ReceptionCode,
			QuantityToInvoice:   r.QuantityToInvoice,
		}
	}
	if a := d.Attachment; a != nil {
		resp.Attachment = &AttachmentResponse{
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
			Pages:       a.Pages,
			UploadedAt:  a.UploadedAt,
		}
	}
	return resp
}

// DocumentTypeResponse represents a document type in API responses
// @Description Document type details returned by the API
type DocumentTypeResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	Letter          string    `json:"letter"`
	CreditDebitNote bool      `json:"credit_debit_note"`
	Active          bool      `json:"active"`
}

// ToDocumentTypeResponse converts a domain document type
func ToDocumentTypeResponse(t *document.DocumentType) DocumentTypeResponse {
	return DocumentTypeResponse{
		ID:              t.ID,
		Code:            t.Code,
		Description:     t.Description,
		Letter:          t.Letter,
		CreditDebitNote: t.CreditDebitNote,
		Active:          t.Active,
	}
}

// HistoryEntryResponse is one workflow transition
// @Description One workflow transition of a document
type HistoryEntryResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DownloadURLResponse is a presigned attachment link
// @Description Presigned link to the stored PDF
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}
