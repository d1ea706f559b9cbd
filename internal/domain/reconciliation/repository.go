package reconciliation

import (
	"context"

	"github.com/google/uuid"
)

// LineQuery selects the ledger rows of one provider and society that are
// relevant to a document
type LineQuery struct {
	ProviderAccount string
	SocietyCode     string
	DocumentID      uuid.UUID
}

// LineSource reads raw purchase-order lines. Credit/debit notes and
// standard documents are served by different queries.
type LineSource interface {
	// FindStandardLines returns lines still pending invoicing or referenced by the document
	FindStandardLines(ctx context.Context, q LineQuery) ([]PurchaseOrderLine, error)

	// FindCreditDebitNoteLines returns lines already invoiced or referenced by the document
	FindCreditDebitNoteLines(ctx context.Context, q LineQuery) ([]PurchaseOrderLine, error)
}

// Fetch dispatches to the query matching the variant
func Fetch(ctx context.Context, src LineSource, variant Variant, q LineQuery) ([]PurchaseOrderLine, error) {
	if variant == VariantCreditDebitNote {
		return src.FindCreditDebitNoteLines(ctx, q)
	}
	return src.FindStandardLines(ctx, q)
}
