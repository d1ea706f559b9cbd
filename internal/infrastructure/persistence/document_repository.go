package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var documentOrderColumns = map[string]string{
	"created_at":   "created_at",
	"issue_date":   "issue_date",
	"due_date":     "due_date",
	"number":       "number",
	"total_amount": "total_amount",
	"status":       "status",
}

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TaxLines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("OrderReferences", func(db *gorm.DB) *gorm.DB { return db.Order("purchase_order_number, position") })
}

// FindByID finds a document with its tax lines and order references
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.withChildren(r.db.WithContext(ctx)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter document.Filter) ([]document.Document, int64, error) {
	filter.Normalize()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DocumentModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DocumentModel
	if err := r.withChildren(applyPaging(query, filter.Filter, documentOrderColumns)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	docs := make([]document.Document, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs, total, nil
}

func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter document.Filter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if len(filter.ProviderIDs) > 0 {
		query = query.Where("provider_id IN ?", filter.ProviderIDs)
	}
	if len(filter.SocietyIDs) > 0 {
		query = query.Where("society_id IN ?", filter.SocietyIDs)
	}
	if filter.DocumentTypeID != nil {
		query = query.Where("document_type_id = ?", *filter.DocumentTypeID)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issue_date >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issue_date <= ?", *filter.IssuedTo)
	}
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// ExistsByNumber checks whether the provider already submitted a document
// of the same type and number that was not cancelled
func (r *GormDocumentRepository) ExistsByNumber(ctx context.Context, providerID, documentTypeID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("provider_id = ? AND document_type_id = ? AND number = ? AND status <> ?",
			providerID, documentTypeID, number, string(document.StatusCancelled)).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new document with its children
func (r *GormDocumentRepository) Create(ctx context.Context, d *document.Document) error {
	if d == nil {
		return errors.New("document cannot be nil")
	}
	return translateError(r.db.WithContext(ctx).Create(models.DocumentModelFromDomain(d)).Error)
}

// SaveWithLock saves with optimistic locking (version check). Tax lines and
// order references are replaced.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, d *document.Document) error {
	if d == nil {
		return errors.New("document cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		result := tx.Model(&models.DocumentModel{}).
			Where("id = ?", d.ID).
			Select("version").
			Scan(&currentVersion)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != d.Version {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The document has been modified by another user")
		}

		model := models.DocumentModelFromDomain(d)
		updatedAt := time.Now()
		update := tx.Model(&models.DocumentModel{}).
			Where("id = ? AND version = ?", d.ID, currentVersion).
			Updates(map[string]interface{}{
				"document_type_id":        model.DocumentTypeID,
				"due_date":                model.DueDate,
				"currency":                model.Currency,
				"net_amount":              model.NetAmount,
				"total_amount":            model.TotalAmount,
				"cae":                     model.CAE,
				"cae_expiration":          model.CAEExpiration,
				"attachment_storage_key":  model.Attachment.StorageKey,
				"attachment_file_name":    model.Attachment.FileName,
				"attachment_content_type": model.Attachment.ContentType,
				"attachment_size":         model.Attachment.Size,
				"attachment_pages":        model.Attachment.Pages,
				"attachment_uploaded_at":  model.Attachment.UploadedAt,
				"status":                  model.Status,
				"observation":             model.Observation,
				"rejection_reason":        model.RejectionReason,
				"paid_at":                 model.PaidAt,
				"version":                 currentVersion + 1,
				"updated_at":              updatedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The document has been modified by another user")
		}

		if err := tx.Where("document_id = ?", d.ID).Delete(&models.DocumentTaxLineModel{}).Error; err != nil {
			return err
		}
		if len(model.TaxLines) > 0 {
			if err := tx.Omit(clause.Associations).Create(&model.TaxLines).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("document_id = ?", d.ID).Delete(&models.DocumentOrderReferenceModel{}).Error; err != nil {
			return err
		}
		if len(model.OrderReferences) > 0 {
			if err := tx.Omit(clause.Associations).Create(&model.OrderReferences).Error; err != nil {
				return err
			}
		}

		d.Version = currentVersion + 1
		d.UpdatedAt = updatedAt
		return nil
	})
}

// GormDocumentTypeRepository implements document.DocumentTypeRepository
type GormDocumentTypeRepository struct {
	db *gorm.DB
}

// NewGormDocumentTypeRepository creates a new GormDocumentTypeRepository
func NewGormDocumentTypeRepository(db *gorm.DB) *GormDocumentTypeRepository {
	return &GormDocumentTypeRepository{db: db}
}

// FindByID finds a document type by ID
func (r *GormDocumentTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.DocumentType, error) {
	var model models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a document type by its AFIP code
func (r *GormDocumentTypeRepository) FindByCode(ctx context.Context, code string) (*document.DocumentType, error) {
	var model models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActive lists the active document types ordered by code
func (r *GormDocumentTypeRepository) FindActive(ctx context.Context) ([]document.DocumentType, error) {
	var rows []models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]document.DocumentType, len(rows))
	for i := range rows {
		types[i] = *rows[i].ToDomain()
	}
	return types, nil
}

// GormDocumentHistoryRepository implements document.HistoryRepository
type GormDocumentHistoryRepository struct {
	db *gorm.DB
}

// NewGormDocumentHistoryRepository creates a new GormDocumentHistoryRepository
func NewGormDocumentHistoryRepository(db *gorm.DB) *GormDocumentHistoryRepository {
	return &GormDocumentHistoryRepository{db: db}
}

// Append stores one transition
func (r *GormDocumentHistoryRepository) Append(ctx context.Context, entry document.HistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	model := models.DocumentHistoryModel{
		ID:         entry.ID,
		DocumentID: entry.DocumentID,
		FromStatus: string(entry.From),
		ToStatus:   string(entry.To),
		Reason:     entry.Reason,
		OccurredAt: entry.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByDocument returns the transitions of a document, oldest first
func (r *GormDocumentHistoryRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]document.HistoryEntry, error) {
	var rows []models.DocumentHistoryModel
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Order("occurred_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]document.HistoryEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

var (
	_ document.Repository             = (*GormDocumentRepository)(nil)
	_ document.DocumentTypeRepository = (*GormDocumentTypeRepository)(nil)
	_ document.HistoryRepository      = (*GormDocumentHistoryRepository)(nil)
)
