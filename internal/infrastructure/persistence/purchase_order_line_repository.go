package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/reconciliation"
	"github.com/preload/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const purchaseOrderLineColumns = `l.order_id, l.document_number, l.position, l.product_description,
	l.unit_of_measure, l.emission_date, l.quantity_ordered, l.quantity_received,
	l.quantity_invoiced, l.original_amount, l.society_code, l.provider_account,
	l.contact, l.advance_payment_net_amount,
	r.reception_code AS reception_code, r.quantity_to_invoice AS quantity_to_invoice`

const (
	standardLineCondition        = "(l.quantity_received > l.quantity_invoiced OR r.id IS NOT NULL)"
	creditDebitNoteLineCondition = "(l.quantity_invoiced > 0 OR r.id IS NOT NULL)"
)

// GormPurchaseOrderLineRepository reads the SAP purchase-order mirror.
// It implements reconciliation.LineSource.
type GormPurchaseOrderLineRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderLineRepository creates a new GormPurchaseOrderLineRepository
func NewGormPurchaseOrderLineRepository(db *gorm.DB) *GormPurchaseOrderLineRepository {
	return &GormPurchaseOrderLineRepository{db: db}
}

// FindStandardLines returns positions with received quantity still to invoice,
// plus any position the document references
func (r *GormPurchaseOrderLineRepository) FindStandardLines(ctx context.Context, q reconciliation.LineQuery) ([]reconciliation.PurchaseOrderLine, error) {
	return r.find(ctx, q, standardLineCondition)
}

// FindCreditDebitNoteLines returns positions that were already invoiced,
// plus any position the document references
func (r *GormPurchaseOrderLineRepository) FindCreditDebitNoteLines(ctx context.Context, q reconciliation.LineQuery) ([]reconciliation.PurchaseOrderLine, error) {
	return r.find(ctx, q, creditDebitNoteLineCondition)
}

func (r *GormPurchaseOrderLineRepository) find(ctx context.Context, q reconciliation.LineQuery, condition string) ([]reconciliation.PurchaseOrderLine, error) {
	var rows []models.PurchaseOrderLineRow
	err := r.db.WithContext(ctx).
		Table("sap_purchase_order_lines AS l").
		Select(purchaseOrderLineColumns).
		Joins("LEFT JOIN document_order_references AS r ON r.purchase_order_number = l.document_number AND r.position = l.position AND r.document_id = ?", q.DocumentID).
		Where("l.provider_account = ? AND l.society_code = ?", q.ProviderAccount, q.SocietyCode).
		Where(condition).
		Order("l.document_number, l.position").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]reconciliation.PurchaseOrderLine, len(rows))
	for i, row := range rows {
		lines[i] = reconciliation.PurchaseOrderLine{
			OrderID:                 row.OrderID,
			DocumentNumber:          row.DocumentNumber,
			Position:                row.Position,
			ProductDescription:      row.ProductDescription,
			UnitOfMeasure:           row.UnitOfMeasure,
			EmissionDate:            row.EmissionDate,
			QuantityOrdered:         row.QuantityOrdered,
			QuantityReceived:        row.QuantityReceived,
			QuantityInvoiced:        row.QuantityInvoiced,
			ReceptionCode:           row.ReceptionCode,
			OriginalAmount:          row.OriginalAmount,
			SocietyCode:             row.SocietyCode,
			ProviderCode:            row.ProviderAccount,
			Contact:                 row.Contact,
			AdvancePaymentNetAmount: row.AdvancePaymentNetAmount,
		}
		if row.QuantityToInvoice.Valid {
			qty := row.QuantityToInvoice.Decimal
			lines[i].QuantityToInvoice = &qty
		}
	}
	return lines, nil
}

// Upsert stores mirrored positions keyed by (document number, position)
func (r *GormPurchaseOrderLineRepository) Upsert(ctx context.Context, lines []models.PurchaseOrderLineModel) error {
	if len(lines) == 0 {
		return nil
	}
	now := time.Now()
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].SyncedAt = now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "document_number"}, {Name: "position"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_id", "product_description", "unit_of_measure", "emission_date",
			"quantity_ordered", "quantity_received", "quantity_invoiced", "original_amount",
			"society_code", "provider_account", "contact", "advance_payment_net_amount", "synced_at",
		}),
	}).CreateInBatches(lines, 200).Error
}

var _ reconciliation.LineSource = (*GormPurchaseOrderLineRepository)(nil)
