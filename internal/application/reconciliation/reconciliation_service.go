package reconciliation

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/reconciliation"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/export"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ScopeResolver turns a principal into the data it may read
type ScopeResolver interface {
	Resolve(ctx context.Context, p identity.Principal) (identity.AccessScope, error)
}

// Metrics receives reconciliation measurements
type Metrics interface {
	RecordReconciliation(ctx context.Context, variant string, rows int, took time.Duration)
}

// ReconciliationService cross-references documents with the SAP ledger mirror
type ReconciliationService struct {
	documentRepo document.Repository
	typeRepo     document.DocumentTypeRepository
	societyRepo  partner.SocietyRepository
	lines        reconciliation.LineSource
	scopes       ScopeResolver
	metrics      Metrics
	logger       *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService. metrics may be nil.
func NewReconciliationService(
	documentRepo document.Repository,
	typeRepo document.DocumentTypeRepository,
	societyRepo partner.SocietyRepository,
	lines reconciliation.LineSource,
	scopes ScopeResolver,
	metrics Metrics,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		documentRepo: documentRepo,
		typeRepo:     typeRepo,
		societyRepo:  societyRepo,
		lines:        lines,
		scopes:       scopes,
		metrics:      metrics,
		logger:       logger,
	}
}

// Reconcile returns the purchase-order lines relevant to a document, with
// the duplication rules of its type applied, sorted and projected
func (s *ReconciliationService) Reconcile(ctx context.Context, p identity.Principal, in ReconcileInput) (resp *ReconciliationResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.reconcile",
		attribute.String("document_id", in.DocumentID.String()),
		attribute.String("provider_account", in.ProviderAccount))
	defer func() { telemetry.EndSpan(span, err) }()
	start := time.Now()

	in.ProviderAccount = strings.TrimSpace(in.ProviderAccount)
	in.SocietyExternalID = strings.TrimSpace(in.SocietyExternalID)
	if in.ProviderAccount == "" || in.SocietyExternalID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Provider and society identifiers are required")
	}

	doc, err := s.documentRepo.FindByID(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	variant, err := s.classify(ctx, doc)
	if err != nil {
		return nil, err
	}
	society, err := s.societyRepo.FindByExternalID(ctx, in.SocietyExternalID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsProviderAccount(in.ProviderAccount) ||
		!scope.AllowsSocietyCode(society.Code) ||
		!scope.AllowsDocument(doc.ProviderID, doc.SocietyID) {
		return nil, shared.ErrForbidden
	}

	raw, err := reconciliation.Fetch(ctx, s.lines, variant, reconciliation.LineQuery{
		ProviderAccount: in.ProviderAccount,
		SocietyCode:     society.Code,
		DocumentID:      doc.ID,
	})
	if err != nil {
		return nil, err
	}
	var rows []reconciliation.Row
	labels := telemetry.OperationLabels("reconcile", map[string]string{telemetry.ProfilingLabelVariant: string(variant)})
	telemetry.WithProfilingLabels(ctx, labels, func(context.Context) {
		rows = reconciliation.ProjectAll(reconciliation.Transform(raw, variant))
	})

	span.SetAttributes(attribute.String("variant", string(variant)), attribute.Int("rows", len(rows)))
	if s.metrics != nil {
		s.metrics.RecordReconciliation(ctx, string(variant), len(rows), time.Since(start))
	}
	logger.With(ctx, s.logger).Debug("Reconciliation computed",
		zap.String("document_id", doc.ID.String()),
		zap.String("variant", string(variant)),
		zap.Int("raw", len(raw)),
		zap.Int("rows", len(rows)))

	return &ReconciliationResponse{
		DocumentID: doc.ID,
		Variant:    string(variant),
		Count:      len(rows),
		Rows:       rows,
	}, nil
}

// Export writes the reconciliation of a document as an .xlsx workbook
func (s *ReconciliationService) Export(ctx context.Context, p identity.Principal, in ReconcileInput, w io.Writer) error {
	resp, err := s.Reconcile(ctx, p, in)
	if err != nil {
		return err
	}
	return export.Write(w, export.ReconciliationSheet(resp.Rows))
}

// classify picks the rule variant from the document type
func (s *ReconciliationService) classify(ctx context.Context, doc *document.Document) (reconciliation.Variant, error) {
	if doc.DocumentTypeID == nil {
		return "", shared.NewDomainError("NOT_FOUND", "Document has no document type")
	}
	t, err := s.typeRepo.FindByID(ctx, *doc.DocumentTypeID)
	if err != nil {
		return "", err
	}
	return reconciliation.VariantFor(t.IsCreditDebitNote()), nil
}
