package document

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

const exportPageSize = 100

// Export writes the documents visible to p that match filter as an .xlsx
// workbook. At most ExportMaxRows documents are written.
func (s *DocumentService) Export(ctx context.Context, p identity.Principal, filter DocumentListFilter, w io.Writer) error {
	f, err := s.scopedFilter(ctx, p, filter)
	if err != nil {
		return err
	}

	var docs []document.Document
	if f != nil {
		f.PageSize = exportPageSize
		for f.Page = 1; len(docs) < s.config.ExportMaxRows; f.Page++ {
			page, total, err := s.documentRepo.FindAll(ctx, *f)
			if err != nil {
				return err
			}
			docs = append(docs, page...)
			if len(page) < exportPageSize || int64(len(docs)) >= total {
				break
			}
		}
		if len(docs) > s.config.ExportMaxRows {
			s.logger.Info("Document export truncated", zap.Int("rows", s.config.ExportMaxRows))
			docs = docs[:s.config.ExportMaxRows]
		}
	}

	lines, err := s.describe(ctx, docs)
	if err != nil {
		return err
	}
	return export.Write(w, export.DocumentsSheet(lines))
}

// describe resolves provider names, society codes and type codes for docs
func (s *DocumentService) describe(ctx context.Context, docs []document.Document) ([]export.DocumentLine, error) {
	providerNames := make(map[uuid.UUID]string)
	societyIDs := make([]uuid.UUID, 0)
	seenSociety := make(map[uuid.UUID]bool)
	for _, d := range docs {
		if _, ok := providerNames[d.ProviderID]; !ok {
			provider, err := s.providerRepo.FindByID(ctx, d.ProviderID)
			if err != nil && !isNotFound(err) {
				return nil, err
			}
			if provider != nil {
				providerNames[d.ProviderID] = provider.BusinessName
			} else {
				providerNames[d.ProviderID] = ""
			}
		}
		if !seenSociety[d.SocietyID] {
			seenSociety[d.SocietyID] = true
			societyIDs = append(societyIDs, d.SocietyID)
		}
	}

	societyCodes := make(map[uuid.UUID]string)
	if len(societyIDs) > 0 {
		societies, err := s.societyRepo.FindByIDs(ctx, societyIDs)
		if err != nil {
			return nil, err
		}
		for _, soc := range societies {
			societyCodes[soc.ID] = soc.Code
		}
	}

	typeCodes := make(map[uuid.UUID]string)
	if len(docs) > 0 {
		types, err := s.typeRepo.FindActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			typeCodes[t.ID] = t.Code
		}
	}

	lines := make([]export.DocumentLine, len(docs))
	for i, d := range docs {
		line := export.DocumentLine{
			Document:     d,
			ProviderName: providerNames[d.ProviderID],
			SocietyCode:  societyCodes[d.SocietyID],
		}
		if d.DocumentTypeID != nil {
			line.TypeCode = typeCodes[*d.DocumentTypeID]
		}
		lines[i] = line
	}
	return lines, nil
}
