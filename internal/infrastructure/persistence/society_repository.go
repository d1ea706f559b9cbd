package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var societyOrderColumns = map[string]string{
	"created_at": "created_at",
	"code":       "code",
	"name":       "name",
}

// GormSocietyRepository implements SocietyRepository using GORM
type GormSocietyRepository struct {
	db *gorm.DB
}

// NewGormSocietyRepository creates a new GormSocietyRepository
func NewGormSocietyRepository(db *gorm.DB) *GormSocietyRepository {
	return &GormSocietyRepository{db: db}
}

// FindByID finds a society by ID
func (r *GormSocietyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Society, error) {
	var model models.SocietyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a society by the identifier callers use for it
func (r *GormSocietyRepository) FindByExternalID(ctx context.Context, externalID string) (*partner.Society, error) {
	var model models.SocietyModel
	if err := r.db.WithContext(ctx).Where("external_id = ?", strings.TrimSpace(externalID)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the societies among ids that exist, ordered by code
func (r *GormSocietyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Society, error) {
	if len(ids) == 0 {
		return []partner.Society{}, nil
	}
	var rows []models.SocietyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	societies := make([]partner.Society, len(rows))
	for i := range rows {
		societies[i] = *rows[i].ToDomain()
	}
	return societies, nil
}

// FindAll lists societies, matching Search against code and name
func (r *GormSocietyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Society, int64, error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.SocietyModel{})
	if filter.Search != "" {
		term := "%" + strings.ToUpper(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("code LIKE ? OR UPPER(name) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SocietyModel
	if err := applyPaging(query, filter, societyOrderColumns).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	societies := make([]partner.Society, len(rows))
	for i := range rows {
		societies[i] = *rows[i].ToDomain()
	}
	return societies, total, nil
}

// ExistsByCode checks whether a society code is taken
func (r *GormSocietyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SocietyModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a society
func (r *GormSocietyRepository) Save(ctx context.Context, society *partner.Society) error {
	if society == nil {
		return errors.New("society cannot be nil")
	}
	return translateError(r.db.WithContext(ctx).Save(models.SocietyModelFromDomain(society)).Error)
}

// GormUserSocietyRepository implements UserSocietyRepository using GORM
type GormUserSocietyRepository struct {
	db *gorm.DB
}

// NewGormUserSocietyRepository creates a new GormUserSocietyRepository
func NewGormUserSocietyRepository(db *gorm.DB) *GormUserSocietyRepository {
	return &GormUserSocietyRepository{db: db}
}

// Assign links a user to a society; assigning twice is a no-op
func (r *GormUserSocietyRepository) Assign(ctx context.Context, userID, societyID uuid.UUID) error {
	model := models.UserSocietyModel{UserID: userID, SocietyID: societyID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

// Unassign removes a user to society link
func (r *GormUserSocietyRepository) Unassign(ctx context.Context, userID, societyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND society_id = ?", userID, societyID).
		Delete(&models.UserSocietyModel{}).Error
}

// FindSocietyIDsByUser returns the societies assigned to a user
func (r *GormUserSocietyRepository) FindSocietyIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserSocietyModel{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("society_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

var (
	_ partner.SocietyRepository     = (*GormSocietyRepository)(nil)
	_ partner.UserSocietyRepository = (*GormUserSocietyRepository)(nil)
)
