package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderLineModel mirrors one purchase-order position synchronized from SAP
type PurchaseOrderLineModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID                 string          `gorm:"type:varchar(20);not null"`
	DocumentNumber          string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_po_lines_doc_pos,priority:1"`
	Position                int             `gorm:"not null;uniqueIndex:idx_po_lines_doc_pos,priority:2"`
	ProductDescription      string          `gorm:"type:varchar(255)"`
	UnitOfMeasure           string          `gorm:"type:varchar(10)"`
	EmissionDate            time.Time       `gorm:"type:date"`
	QuantityOrdered         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReceived        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityInvoiced        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OriginalAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SocietyCode             string          `gorm:"type:varchar(10);not null;index:idx_po_lines_scope,priority:2"`
	ProviderAccount         string          `gorm:"type:varchar(20);not null;index:idx_po_lines_scope,priority:1"`
	Contact                 string          `gorm:"type:varchar(200)"`
	AdvancePaymentNetAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SyncedAt                time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "sap_purchase_order_lines"
}

// PurchaseOrderLineRow is a ledger row joined with the reference a document
// holds on it, if any
type PurchaseOrderLineRow struct {
	OrderID                 string
	DocumentNumber          string
	Position                int
	ProductDescription      string
	UnitOfMeasure           string
	EmissionDate            time.Time
	QuantityOrdered         decimal.Decimal
	QuantityReceived        decimal.Decimal
	QuantityInvoiced        decimal.Decimal
	OriginalAmount          decimal.Decimal
	SocietyCode             string
	ProviderAccount         string
	Contact                 string
	AdvancePaymentNetAmount decimal.Decimal
	ReceptionCode           *string
	QuantityToInvoice       decimal.NullDecimal
}
