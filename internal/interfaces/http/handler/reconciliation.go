package handler

import (
	"bytes"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/application/reconciliation"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/interfaces/http/dto"
)

// ReconciliationHandler serves the purchase-order reconciliation of a document
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *reconciliation.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *reconciliation.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: service}
}

// Reconcile godoc
// @ID           reconcileDocument
// @Summary      Reconcile a document
// @Description  Match the purchase-order lines of a provider and society against a document. Credit and debit notes use their own rules.
// @Tags         reconciliations
// @Produce      json
// @Param        provider_id query string true "Provider SAP account"
// @Param        society_id query string true "External society ID"
// @Param        document_id query string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[reconciliation.ReconciliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliations [get]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	p, in, ok := h.bind(c)
	if !ok {
		return
	}
	resp, err := h.reconciliationService.Reconcile(c.Request.Context(), p, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export godoc
// @ID           exportReconciliation
// @Summary      Export a reconciliation
// @Description  Download the reconciliation rows as an Excel workbook
// @Tags         reconciliations
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        provider_id query string true "Provider SAP account"
// @Param        society_id query string true "External society ID"
// @Param        document_id query string true "Document ID" format(uuid)
// @Success      200 {file} binary "Excel workbook"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliations/export [get]
func (h *ReconciliationHandler) Export(c *gin.Context) {
	p, in, ok := h.bind(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.reconciliationService.Export(c.Request.Context(), p, in, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("reconciliation-%s.xlsx", in.DocumentID), &buf)
}

func (h *ReconciliationHandler) bind(c *gin.Context) (identity.Principal, reconciliation.ReconcileInput, bool) {
	p, ok := h.principal(c)
	if !ok {
		return p, reconciliation.ReconcileInput{}, false
	}
	var req reconciliation.ReconcileRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return p, reconciliation.ReconcileInput{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "document_id must be a UUID")
		return p, reconciliation.ReconcileInput{}, false
	}
	return p, in, true
}
