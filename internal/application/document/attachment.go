package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/pdf"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

// UploadAttachment stores the PDF of a pending or observed document.
// A previously stored file with a different name is removed afterwards.
func (s *DocumentService) UploadAttachment(ctx context.Context, p identity.Principal, in UploadAttachmentInput) (*DocumentResponse, error) {
	if !p.Role.CanWrite() {
		return nil, shared.ErrForbidden
	}
	if in.Size > s.config.MaxAttachmentSize || int64(len(in.Content)) > s.config.MaxAttachmentSize {
		return nil, shared.NewDomainError("ATTACHMENT_TOO_LARGE",
			fmt.Sprintf("Attachment exceeds %d bytes", s.config.MaxAttachmentSize))
	}
	if len(in.Content) == 0 {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT", "Attachment is empty")
	}

	doc, err := s.findVisible(ctx, p, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != document.StatusPending && doc.Status != document.StatusObserved {
		return nil, shared.NewDomainError("INVALID_STATE", "Attachment can only change while the document is pending or observed")
	}

	info, err := s.inspector.Inspect(in.Content)
	if err != nil {
		if errors.Is(err, pdf.ErrNotPDF) {
			return nil, shared.WrapDomainError("INVALID_ATTACHMENT", "Attachment must be a PDF document", err)
		}
		return nil, shared.WrapDomainError("INVALID_ATTACHMENT", "Attachment could not be read", err)
	}
	if info.Pages > s.config.MaxPages {
		return nil, shared.NewDomainError("TOO_MANY_PAGES",
			fmt.Sprintf("Attachment has %d pages, at most %d are accepted", info.Pages, s.config.MaxPages))
	}
	s.checkContent(ctx, doc, info)

	key := s.storage.Key(doc.ID, in.FileName)
	size := int64(len(in.Content))
	if err := s.storage.Put(ctx, key, bytes.NewReader(in.Content), size, pdfContentType); err != nil {
		return nil, err
	}

	var previous string
	updated, err := s.withDocumentLock(ctx, doc.ID, func(current *document.Document) error {
		if current.Attachment != nil {
			previous = current.Attachment.StorageKey
		}
		return current.Attach(document.Attachment{
			StorageKey:  key,
			FileName:    in.FileName,
			ContentType: pdfContentType,
			Size:        size,
			Pages:       info.Pages,
			UploadedAt:  time.Now(),
		})
	})
	if err != nil {
		if derr := s.storage.Delete(ctx, key); derr != nil {
			logger.With(ctx, s.logger).Warn("Failed to remove orphaned attachment", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.storage.Delete(ctx, previous); err != nil {
			logger.With(ctx, s.logger).Warn("Failed to remove replaced attachment", zap.String("key", previous), zap.Error(err))
		}
	}

	resp := ToDocumentResponse(updated)
	return &resp, nil
}

// DownloadURL returns a presigned link to the attachment of a document
func (s *DocumentService) DownloadURL(ctx context.Context, p identity.Principal, id uuid.UUID) (*DownloadURLResponse, error) {
	doc, err := s.findVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if doc.Attachment == nil {
		return nil, shared.NewDomainError("ATTACHMENT_NOT_FOUND", "Document has no attachment")
	}
	url, expires, err := s.storage.PresignDownload(ctx, doc.Attachment.StorageKey, doc.Attachment.FileName)
	if err != nil {
		return nil, err
	}
	return &DownloadURLResponse{URL: url, FileName: doc.Attachment.FileName, ExpiresAt: expires}, nil
}

// checkContent compares what the PDF text reveals with the document metadata.
// Scanned files carry no text, so mismatches are only logged.
func (s *DocumentService) checkContent(ctx context.Context, doc *document.Document, info *pdf.Info) {
	if !info.HasText {
		return
	}
	log := logger.With(ctx, s.logger).With(zap.String("document_id", doc.ID.String()))
	if provider, err := s.providerRepo.FindByID(ctx, doc.ProviderID); err == nil {
		if len(info.CUITs) > 0 && !slices.Contains(info.CUITs, provider.CUIT) {
			log.Warn("Attachment does not mention the provider CUIT",
				zap.String("cuit", provider.CUIT), zap.Strings("found", info.CUITs))
		}
	}
	if info.CAE != "" && info.CAE != doc.CAE {
		log.Warn("Attachment CAE differs from the submitted one",
			zap.String("cae", doc.CAE), zap.String("found", info.CAE))
	}
}
