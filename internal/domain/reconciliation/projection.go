package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is the public shape of a reconciled purchase-order line.
// Fields the ledger mirror does not carry are always null.
type Row struct {
	OrderID                 string           `json:"order_id"`
	DocumentNumber          string           `json:"document_number"`
	Position                int              `json:"position"`
	Material                *string          `json:"material"`
	ProductDescription      string           `json:"product_description"`
	CompanyCode             *string          `json:"company_code"`
	Warehouse               *string          `json:"warehouse"`
	UnitOfMeasure           string           `json:"unit_of_measure"`
	EmissionDate            time.Time        `json:"emission_date"`
	QuantityOrdered         decimal.Decimal  `json:"quantity_ordered"`
	QuantityReceived        decimal.Decimal  `json:"quantity_received"`
	ReceivedUnit            *string          `json:"received_unit"`
	QuantityInvoiced        decimal.Decimal  `json:"quantity_invoiced"`
	InvoicedUnit            *string          `json:"invoiced_unit"`
	QuantityToInvoice       *decimal.Decimal `json:"quantity_to_invoice"`
	QuantityStillToInvoice  decimal.Decimal  `json:"quantity_still_to_invoice"`
	ReceptionCode           string           `json:"reception_code"`
	OriginalAmount          decimal.Decimal  `json:"original_amount"`
	TotalAmount             *decimal.Decimal `json:"total_amount"`
	Currency                *string          `json:"currency"`
	PaymentTerms            *string          `json:"payment_terms"`
	DeliveryAddress         *string          `json:"delivery_address"`
	Locality                *string          `json:"locality"`
	DocumentType            *string          `json:"document_type"`
	DeletionFlag            *bool            `json:"deletion_flag"`
	BlockedFlag             *bool            `json:"blocked_flag"`
	FinalDeliveryFlag       *bool            `json:"final_delivery_flag"`
	DistributionFlag        *bool            `json:"distribution_flag"`
	Released                int              `json:"released"`
	SocietyCode             string           `json:"society_code"`
	ProviderCode            string           `json:"provider_code"`
	Contact                 string           `json:"contact"`
	AdvancePaymentNetAmount decimal.Decimal  `json:"advance_payment_net_amount"`
}

// Project maps one enriched line to its public row
func Project(e EnrichedLine) Row {
	return Row{
		OrderID:                 e.OrderID,
		DocumentNumber:          e.DocumentNumber,
		Position:                e.Position,
		ProductDescription:      e.ProductDescription,
		UnitOfMeasure:           e.UnitOfMeasure,
		EmissionDate:            e.EmissionDate,
		QuantityOrdered:         e.QuantityOrdered,
		QuantityReceived:        e.QuantityReceived,
		QuantityInvoiced:        e.QuantityInvoiced,
		QuantityToInvoice:       copyDecimal(e.QuantityToInvoice),
		QuantityStillToInvoice:  e.QuantityStillToInvoice,
		ReceptionCode:           e.ReceptionCode,
		OriginalAmount:          e.OriginalAmount,
		TotalAmount:             copyDecimal(e.TotalAmount),
		Released:                0,
		SocietyCode:             e.SocietyCode,
		ProviderCode:            e.ProviderCode,
		Contact:                 e.Contact,
		AdvancePaymentNetAmount: e.AdvancePaymentNetAmount,
	}
}

// ProjectAll maps lines in order
func ProjectAll(lines []EnrichedLine) []Row {
	rows := make([]Row, len(lines))
	for i, l := range lines {
		rows[i] = Project(l)
	}
	return rows
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
