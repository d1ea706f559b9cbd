package document

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/pdf"
	"go.uber.org/zap"
)

// ScopeResolver turns a principal into the data it may read
type ScopeResolver interface {
	Resolve(ctx context.Context, p identity.Principal) (identity.AccessScope, error)
}

// ObjectStorage keeps attachment files
type ObjectStorage interface {
	Key(documentID uuid.UUID, fileName string) string
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignDownload(ctx context.Context, key, fileName string) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// AttachmentInspector reads the content of an uploaded PDF
type AttachmentInspector interface {
	Inspect(content []byte) (*pdf.Info, error)
}

// Config holds document intake limits
type Config struct {
	MaxAttachmentSize int64
	MaxPages          int
	ExportMaxRows     int
	LockTTL           time.Duration
}

// DefaultConfig returns the limits used when none are configured
func DefaultConfig() Config {
	return Config{
		MaxAttachmentSize: 10 << 20,
		MaxPages:          50,
		ExportMaxRows:     10000,
		LockTTL:           15 * time.Second,
	}
}

// DocumentService handles document submission, workflow and attachments
type DocumentService struct {
	documentRepo   document.Repository
	typeRepo       document.DocumentTypeRepository
	historyRepo    document.HistoryRepository
	providerRepo   partner.ProviderRepository
	societyRepo    partner.SocietyRepository
	scopes         ScopeResolver
	storage        ObjectStorage
	inspector      AttachmentInspector
	locker         shared.Locker
	eventPublisher shared.EventPublisher
	config         Config
	logger         *zap.Logger
}

// DocumentServiceDeps groups the collaborators of DocumentService
type DocumentServiceDeps struct {
	Documents document.Repository
	Types     document.DocumentTypeRepository
	History   document.HistoryRepository
	Providers partner.ProviderRepository
	Societies partner.SocietyRepository
	Scopes    ScopeResolver
	Storage   ObjectStorage
	Inspector AttachmentInspector
	Locker    shared.Locker
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(deps DocumentServiceDeps, config Config, logger *zap.Logger) *DocumentService {
	def := DefaultConfig()
	if config.MaxAttachmentSize <= 0 {
		config.MaxAttachmentSize = def.MaxAttachmentSize
	}
	if config.MaxPages <= 0 {
		config.MaxPages = def.MaxPages
	}
	if config.ExportMaxRows <= 0 {
		config.ExportMaxRows = def.ExportMaxRows
	}
	if config.LockTTL <= 0 {
		config.LockTTL = def.LockTTL
	}
	return &DocumentService{
		documentRepo: deps.Documents,
		typeRepo:     deps.Types,
		historyRepo:  deps.History,
		providerRepo: deps.Providers,
		societyRepo:  deps.Societies,
		scopes:       deps.Scopes,
		storage:      deps.Storage,
		inspector:    deps.Inspector,
		locker:       deps.Locker,
		config:       config,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher that receives document events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create validates and stores a new PENDING document
func (s *DocumentService) Create(ctx context.Context, p identity.Principal, req CreateDocumentRequest) (*DocumentResponse, error) {
	if !p.Role.CanWrite() {
		return nil, shared.ErrForbidden
	}

	provider, err := s.providerRepo.FindByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, shared.NewDomainError("PROVIDER_INACTIVE", "Provider is not active")
	}
	society, err := s.societyRepo.FindByID(ctx, req.SocietyID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsDocument(provider.ID, society.ID) {
		return nil, shared.ErrForbidden
	}

	docType, err := s.typeRepo.FindByID(ctx, req.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if !docType.Active {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is not active")
	}

	number := strings.TrimSpace(req.Number)
	exists, err := s.documentRepo.ExistsByNumber(ctx, provider.ID, docType.ID, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Document "+number+" was already submitted")
	}

	doc, err := document.NewDocument(document.NewDocumentInput{
		ProviderID:      provider.ID,
		SocietyID:       society.ID,
		DocumentTypeID:  docType.ID,
		Number:          number,
		IssueDate:       req.IssueDate,
		DueDate:         req.DueDate,
		Currency:        req.Currency,
		NetAmount:       req.NetAmount,
		TotalAmount:     req.TotalAmount,
		TaxLines:        toTaxLines(req.TaxLines),
		CAE:             req.CAE,
		CAEExpiration:   req.CAEExpiration,
		OrderReferences: toOrderReferences(req.OrderReferences),
		CreatedBy:       p.UserID,
	})
	if err != nil {
		return nil, err
	}

	events := doc.GetDomainEvents()
	doc.ClearDomainEvents()
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(ctx, events)

	s.logger.Info("Document submitted",
		zap.String("document_id", doc.ID.String()),
		zap.String("number", doc.Number),
		zap.String("provider_id", provider.ID.String()))

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// GetByID returns a document visible to p. Documents outside the scope are
// reported as not found.
func (s *DocumentService) GetByID(ctx context.Context, p identity.Principal, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// List returns a page of documents visible to p
func (s *DocumentService) List(ctx context.Context, p identity.Principal, filter DocumentListFilter) (shared.Paginated[DocumentResponse], error) {
	f, err := s.scopedFilter(ctx, p, filter)
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}
	if f == nil {
		page := toBaseFilter(filter)
		return shared.NewPaginated([]DocumentResponse{}, 0, page.Page, page.PageSize), nil
	}

	docs, total, err := s.documentRepo.FindAll(ctx, *f)
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}
	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = ToDocumentResponse(&docs[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// History returns the workflow transitions of a document, oldest first
func (s *DocumentService) History(ctx context.Context, p identity.Principal, id uuid.UUID) ([]HistoryEntryResponse, error) {
	if _, err := s.findVisible(ctx, p, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.FindByDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			From:       e.From.String(),
			To:         e.To.String(),
			Reason:     e.Reason,
			OccurredAt: e.OccurredAt,
		}
	}
	return out, nil
}

// ListTypes returns the active document types
func (s *DocumentService) ListTypes(ctx context.Context) ([]DocumentTypeResponse, error) {
	types, err := s.typeRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentTypeResponse, len(types))
	for i := range types {
		out[i] = ToDocumentTypeResponse(&types[i])
	}
	return out, nil
}

// GetType returns a document type
func (s *DocumentService) GetType(ctx context.Context, id uuid.UUID) (*DocumentTypeResponse, error) {
	t, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentTypeResponse(t)
	return &resp, nil
}

func (s *DocumentService) findVisible(ctx context.Context, p identity.Principal, id uuid.UUID) (*document.Document, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role.SeesEverything() {
		return doc, nil
	}
	scope, err := s.scopes.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsDocument(doc.ProviderID, doc.SocietyID) {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

// scopedFilter parses filter and intersects it with the scope of p.
// A nil filter means nothing can match.
func (s *DocumentService) scopedFilter(ctx context.Context, p identity.Principal, filter DocumentListFilter) (*document.Filter, error) {
	f := document.Filter{Filter: toBaseFilter(filter)}
	for _, st := range filter.Statuses {
		status := document.Status(strings.ToUpper(st))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown status "+st)
		}
		f.Statuses = append(f.Statuses, status)
	}

	var err error
	var providerID, societyID *uuid.UUID
	if providerID, err = parseOptionalID(filter.ProviderID, "provider_id"); err != nil {
		return nil, err
	}
	if societyID, err = parseOptionalID(filter.SocietyID, "society_id"); err != nil {
		return nil, err
	}
	if f.DocumentTypeID, err = parseOptionalID(filter.DocumentTypeID, "document_type_id"); err != nil {
		return nil, err
	}
	if f.IssuedFrom, err = parseOptionalDate(filter.IssuedFrom, "issued_from"); err != nil {
		return nil, err
	}
	if f.IssuedTo, err = parseOptionalDate(filter.IssuedTo, "issued_to"); err != nil {
		return nil, err
	}
	if f.IssuedTo != nil {
		end := f.IssuedTo.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.IssuedTo = &end
	}

	scope, err := s.scopes.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	var ok bool
	if f.ProviderIDs, ok = intersect(providerID, scope.Unrestricted || !scope.RestrictsProviders(), scope.ProviderIDs); !ok {
		return nil, nil
	}
	if f.SocietyIDs, ok = intersect(societyID, scope.Unrestricted || !scope.RestrictsSocieties(), scope.SocietyIDs); !ok {
		return nil, nil
	}
	if scope.IsEmpty() {
		return nil, nil
	}
	return &f, nil
}

// intersect combines a requested id with the ids a scope allows. The second
// result is false when the combination matches nothing.
func intersect(requested *uuid.UUID, unrestricted bool, allowed []uuid.UUID) ([]uuid.UUID, bool) {
	switch {
	case requested == nil && unrestricted:
		return nil, true
	case requested == nil:
		return allowed, len(allowed) > 0
	case unrestricted || slices.Contains(allowed, *requested):
		return []uuid.UUID{*requested}, true
	}
	return nil, false
}

func toBaseFilter(filter DocumentListFilter) shared.Filter {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}
	f.Normalize()
	return f
}

func parseOptionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Invalid "+field, err)
	}
	return &id, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Invalid "+field, err)
	}
	return &t, nil
}

func toTaxLines(in []TaxLineRequest) []document.TaxLine {
	out := make([]document.TaxLine, len(in))
	for i, t := range in {
		out[i] = document.TaxLine{Code: strings.TrimSpace(t.Code), Base: t.Base, Amount: t.Amount}
	}
	return out
}

func toOrderReferences(in []OrderReferenceRequest) []document.OrderReference {
	out := make([]document.OrderReference, len(in))
	for i, r := range in {
		out[i] = document.OrderReference{
			PurchaseOrderNumber: strings.TrimSpace(r.PurchaseOrderNumber),
			Position:            r.Position,
			ReceptionCode:       strings.TrimSpace(r.ReceptionCode),
			QuantityToInvoice:   r.QuantityToInvoice,
		}
	}
	return out
}

func (s *DocumentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish document events", zap.Error(err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
