package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLine is one purchase-order position as read from the SAP
// ledger mirror, joined with the invoicing context of a document.
// (DocumentNumber, Position) is unique within one fetch.
type PurchaseOrderLine struct {
	OrderID                 string
	DocumentNumber          string
	Position                int
	ProductDescription      string
	UnitOfMeasure           string
	EmissionDate            time.Time
	QuantityOrdered         decimal.Decimal
	QuantityReceived        decimal.Decimal
	QuantityInvoiced        decimal.Decimal
	QuantityToInvoice       *decimal.Decimal // only set while a reception is being invoiced
	ReceptionCode           *string
	OriginalAmount          decimal.Decimal
	SocietyCode             string
	ProviderCode            string
	Contact                 string
	AdvancePaymentNetAmount decimal.Decimal
}

// HasReceptionCode reports whether the line carries a non-blank reception code
func (l PurchaseOrderLine) HasReceptionCode() bool {
	return l.ReceptionCode != nil && strings.TrimSpace(*l.ReceptionCode) != ""
}

// EnrichedLine is a PurchaseOrderLine with its derived billing fields.
// ReceptionCode is never absent here: a missing code is "".
type EnrichedLine struct {
	OrderID                 string
	DocumentNumber          string
	Position                int
	ProductDescription      string
	UnitOfMeasure           string
	EmissionDate            time.Time
	QuantityOrdered         decimal.Decimal
	QuantityReceived        decimal.Decimal
	QuantityInvoiced        decimal.Decimal
	QuantityToInvoice       *decimal.Decimal
	QuantityStillToInvoice  decimal.Decimal
	ReceptionCode           string
	OriginalAmount          decimal.Decimal
	TotalAmount             *decimal.Decimal
	SocietyCode             string
	ProviderCode            string
	Contact                 string
	AdvancePaymentNetAmount decimal.Decimal
}

// Enrich computes the derived fields of a raw line.
// QuantityStillToInvoice is received minus invoiced and may be negative.
// TotalAmount is only set when QuantityToInvoice is present.
func Enrich(l PurchaseOrderLine) EnrichedLine {
	e := EnrichedLine{
		OrderID:                 l.OrderID,
		DocumentNumber:          l.DocumentNumber,
		Position:                l.Position,
		ProductDescription:      l.ProductDescription,
		UnitOfMeasure:           l.UnitOfMeasure,
		EmissionDate:            l.EmissionDate,
		QuantityOrdered:         l.QuantityOrdered,
		QuantityReceived:        l.QuantityReceived,
		QuantityInvoiced:        l.QuantityInvoiced,
		QuantityStillToInvoice:  l.QuantityReceived.Sub(l.QuantityInvoiced),
		OriginalAmount:          l.OriginalAmount,
		SocietyCode:             l.SocietyCode,
		ProviderCode:            l.ProviderCode,
		Contact:                 l.Contact,
		AdvancePaymentNetAmount: l.AdvancePaymentNetAmount,
	}
	if l.ReceptionCode != nil {
		e.ReceptionCode = *l.ReceptionCode
	}
	if l.QuantityToInvoice != nil {
		qty := *l.QuantityToInvoice
		total := qty.Mul(l.OriginalAmount)
		e.QuantityToInvoice = &qty
		e.TotalAmount = &total
	}
	return e
}

// placeholder returns the reception-less copy of e that precedes it in the
// result. keepTotal decides whether the computed total survives.
func (e EnrichedLine) placeholder(keepTotal bool) EnrichedLine {
	p := e
	p.ReceptionCode = ""
	p.QuantityToInvoice = nil
	if !keepTotal {
		p.TotalAmount = nil
	}
	return p
}
