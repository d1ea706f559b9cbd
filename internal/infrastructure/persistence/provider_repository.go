package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var providerOrderColumns = map[string]string{
	"created_at":    "created_at",
	"business_name": "search_name",
	"cuit":          "cuit",
	"sap_account":   "sap_account",
}

// GormProviderRepository implements ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByID finds a provider by ID
func (r *GormProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Provider, error) {
	var model models.ProviderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCUIT finds a provider by tax id, ignoring separators
func (r *GormProviderRepository) FindByCUIT(ctx context.Context, cuit string) (*partner.Provider, error) {
	var model models.ProviderModel
	if err := r.db.WithContext(ctx).Where("cuit = ?", partner.NormalizeCUIT(cuit)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySAPAccount finds a provider by its SAP vendor account
func (r *GormProviderRepository) FindBySAPAccount(ctx context.Context, account string) (*partner.Provider, error) {
	var model models.ProviderModel
	if err := r.db.WithContext(ctx).Where("sap_account = ?", account).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists providers matching the filter
func (r *GormProviderRepository) FindAll(ctx context.Context, filter partner.ProviderFilter) ([]partner.Provider, int64, error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ProviderModel{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		name := "%" + partner.NormalizeName(filter.Search) + "%"
		cuit := partner.NormalizeCUIT(filter.Search) + "%"
		query = query.Where("search_name LIKE ? OR cuit LIKE ?", name, cuit)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProviderModel
	if err := applyPaging(query, filter.Filter, providerOrderColumns).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	providers := make([]partner.Provider, len(rows))
	for i := range rows {
		providers[i] = *rows[i].ToDomain()
	}
	return providers, total, nil
}

// ExistsByCUIT checks whether a provider with the tax id exists
func (r *GormProviderRepository) ExistsByCUIT(ctx context.Context, cuit string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProviderModel{}).
		Where("cuit = ?", partner.NormalizeCUIT(cuit)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *partner.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}
	return translateError(r.db.WithContext(ctx).Save(models.ProviderModelFromDomain(provider)).Error)
}

// Ensure GormProviderRepository implements ProviderRepository
var _ partner.ProviderRepository = (*GormProviderRepository)(nil)
