package document

import (
	"context"

	"github.com/google/uuid"
)

// DocumentType describes a fiscal voucher class (Factura A, Nota de Crédito B, ...)
type DocumentType struct {
	ID              uuid.UUID
	Code            string // AFIP voucher code
	Description     string
	Letter          string
	CreditDebitNote bool
	Active          bool
}

// IsCreditDebitNote reports whether documents of this type adjust a prior invoice
func (t DocumentType) IsCreditDebitNote() bool {
	return t.CreditDebitNote
}

// DocumentTypeRepository reads document types
type DocumentTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DocumentType, error)
	FindByCode(ctx context.Context, code string) (*DocumentType, error)
	FindActive(ctx context.Context) ([]DocumentType, error)
}
