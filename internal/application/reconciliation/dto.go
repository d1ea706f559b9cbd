package reconciliation

import (
	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/reconciliation"
)

// ReconcileRequest carries the correlation identifiers of a reconciliation.
// provider_id is the provider's SAP account and society_id the society's
// external identifier.
type ReconcileRequest struct {
	ProviderID string `form:"provider_id" binding:"required,max=20"`
	SocietyID  string `form:"society_id" binding:"required,max=50"`
	DocumentID string `form:"document_id" binding:"required,uuid"`
}

// ReconcileInput is a parsed ReconcileRequest
type ReconcileInput struct {
	ProviderAccount   string
	SocietyExternalID string
	DocumentID        uuid.UUID
}

// ToInput parses the request identifiers
func (r ReconcileRequest) ToInput() (ReconcileInput, error) {
	id, err := uuid.Parse(r.DocumentID)
	if err != nil {
		return ReconcileInput{}, err
	}
	return ReconcileInput{
		ProviderAccount:   r.ProviderID,
		SocietyExternalID: r.SocietyID,
		DocumentID:        id,
	}, nil
}

// ReconciliationResponse is the reconciled purchase-order view of a document
// @Description Reconciled purchase-order rows of a document
type ReconciliationResponse struct {
	DocumentID uuid.UUID            `json:"document_id"`
	Variant    string               `json:"variant"`
	Count      int                  `json:"count"`
	Rows       []reconciliation.Row `json:"rows"`
}
