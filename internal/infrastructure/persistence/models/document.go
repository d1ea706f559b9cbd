package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// DocumentTypeModel is the persistence model for DocumentType
type DocumentTypeModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	Code            string    `gorm:"type:varchar(3);not null;uniqueIndex"`
	Description     string    `gorm:"type:varchar(100);not null"`
	Letter          string    `gorm:"type:varchar(1)"`
	CreditDebitNote bool      `gorm:"column:credit_debit_note;not null;default:false"`
	Active          bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DocumentTypeModel) TableName() string {
	return "document_types"
}

// ToDomain converts the model to a domain DocumentType
func (m *DocumentTypeModel) ToDomain() *document.DocumentType {
	return &document.DocumentType{
		ID:              m.ID,
		Code:            m.Code,
		Description:     m.Description,
		Letter:          m.Letter,
		CreditDebitNote: m.CreditDebitNote,
		Active:          m.Active,
	}
}

// AttachmentColumns stores the document PDF metadata inline on the documents table.
// An empty StorageKey means no attachment.
type AttachmentColumns struct {
	StorageKey  string     `gorm:"type:varchar(500)"`
	FileName    string     `gorm:"type:varchar(255)"`
	ContentType string     `gorm:"type:varchar(100)"`
	Size        int64      `gorm:"not null;default:0"`
	Pages       int        `gorm:"not null;default:0"`
	UploadedAt  *time.Time `gorm:"type:timestamptz"`
}

// DocumentModel is the persistence model for Document
type DocumentModel struct {
	AggregateModel
	ProviderID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	SocietyID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentTypeID  *uuid.UUID        `gorm:"type:uuid;index"`
	Number          string            `gorm:"type:varchar(14);not null"`
	IssueDate       time.Time         `gorm:"type:date;not null"`
	DueDate         *time.Time        `gorm:"type:date"`
	Currency        string            `gorm:"type:varchar(3);not null;default:'ARS'"`
	NetAmount       decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	CAE             string            `gorm:"column:cae;type:varchar(14)"`
	CAEExpiration   *time.Time        `gorm:"column:cae_expiration;type:date"`
	Attachment      AttachmentColumns `gorm:"embedded;embeddedPrefix:attachment_"`
	Status          string            `gorm:"type:varchar(20);not null;index"`
	Observation     string            `gorm:"type:text"`
	RejectionReason string            `gorm:"type:text"`
	PaidAt          *time.Time        `gorm:"type:timestamptz"`
	CreatedBy       uuid.UUID         `gorm:"type:uuid"`

	TaxLines        []DocumentTaxLineModel        `gorm:"foreignKey:DocumentID"`
	OrderReferences []DocumentOrderReferenceModel `gorm:"foreignKey:DocumentID"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentTaxLineModel is one tax line of a document
type DocumentTaxLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code       string          `gorm:"type:varchar(20);not null"`
	Base       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentTaxLineModel) TableName() string {
	return "document_tax_lines"
}

// DocumentOrderReferenceModel links a document to a purchase order position
type DocumentOrderReferenceModel struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primary_key"`
	DocumentID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	PurchaseOrderNumber string           `gorm:"type:varchar(20);not null"`
	Position            int              `gorm:"not null"`
	ReceptionCode       string           `gorm:"type:varchar(30)"`
	QuantityToInvoice   *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (DocumentOrderReferenceModel) TableName() string {
	return "document_order_references"
}

// ToDomain converts the model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProviderID:        m.ProviderID,
		SocietyID:         m.SocietyID,
		DocumentTypeID:    m.DocumentTypeID,
		Number:            m.Number,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Currency:          m.Currency,
		NetAmount:         m.NetAmount,
		TotalAmount:       m.TotalAmount,
		CAE:               m.CAE,
		CAEExpiration:     m.CAEExpiration,
		Status:            document.Status(m.Status),
		Observation:       m.Observation,
		RejectionReason:   m.RejectionReason,
		PaidAt:            m.PaidAt,
		CreatedBy:         m.CreatedBy,
	}
	if m.Attachment.StorageKey != "" {
		a := &document.Attachment{
			StorageKey:  m.Attachment.StorageKey,
			FileName:    m.Attachment.FileName,
			ContentType: m.Attachment.ContentType,
			Size:        m.Attachment.Size,
			Pages:       m.Attachment.Pages,
		}
		if m.Attachment.UploadedAt != nil {
			a.UploadedAt = *m.Attachment.UploadedAt
		}
		d.Attachment = a
	}
	for _, t := range m.TaxLines {
		d.TaxLines = append(d.TaxLines, document.TaxLine{Code: t.Code, Base: t.Base, Amount: t.Amount})
	}
	for _, r := range m.OrderReferences {
		d.OrderReferences = append(d.OrderReferences, document.OrderReference{
			PurchaseOrderNumber: r.PurchaseOrderNumber,
			Position:            r.Position,
			ReceptionCode:       r.ReceptionCode,
			QuantityToInvoice:   r.QuantityToInvoice,
		})
	}
	return d
}

// DocumentModelFromDomain creates a persistence model, children included, from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{
		ProviderID:      d.ProviderID,
		SocietyID:       d.SocietyID,
		DocumentTypeID:  d.DocumentTypeID,
		Number:          d.Number,
		IssueDate:       d.IssueDate,
		DueDate:         d.DueDate,
		Currency:        d.Currency,
		NetAmount:       d.NetAmount,
		TotalAmount:     d.TotalAmount,
		CAE:             d.CAE,
		CAEExpiration:   d.CAEExpiration,
		Status:          string(d.Status),
		Observation:     d.Observation,
		RejectionReason: d.RejectionReason,
		PaidAt:          d.PaidAt,
		CreatedBy:       d.CreatedBy,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	if a := d.Attachment; a != nil {
		uploaded := a.UploadedAt
		m.Attachment = AttachmentColumns{
			StorageKey:  a.StorageKey,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
			Pages:       a.Pages,
			UploadedAt:  &uploaded,
		}
	}
	for i, t := range d.TaxLines {
		m.TaxLines = append(m.TaxLines, DocumentTaxLineModel{
			ID:         uuid.New(),
			DocumentID: d.ID,
			Code:       t.Code,
			Base:       t.Base,
			Amount:     t.Amount,
			SortOrder:  i,
		})
	}
	for _, r := range d.OrderReferences {
		m.OrderReferences = append(m.OrderReferences, DocumentOrderReferenceModel{
			ID:                  uuid.New(),
			DocumentID:          d.ID,
			PurchaseOrderNumber: r.PurchaseOrderNumber,
			Position:            r.Position,
			ReceptionCode:       r.ReceptionCode,
			QuantityToInvoice:   r.QuantityToInvoice,
		})
	}
	return m
}

// DocumentHistoryModel is one persisted status transition
type DocumentHistoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(20)"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	Reason     string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentHistoryModel) TableName() string {
	return "document_history"
}

// ToDomain converts the model to a domain HistoryEntry
func (m *DocumentHistoryModel) ToDomain() document.HistoryEntry {
	return document.HistoryEntry{
		ID:         m.ID,
		DocumentID: m.DocumentID,
		From:       document.Status(m.FromStatus),
		To:         document.Status(m.ToStatus),
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
}
