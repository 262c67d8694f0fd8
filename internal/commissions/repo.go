package commissions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Repository exposes persistence helpers for commission overrides.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, override *models.CommissionOverride) error
	GetByID(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error)
	GetActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.CommissionOverride, error)
	List(ctx context.Context, params listOverridesParams) ([]models.CommissionOverride, *pagination.Cursor, error)
	Update(ctx context.Context, override *models.CommissionOverride) error
	Delete(ctx context.Context, overrideID uuid.UUID) (bool, error)
	DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	ListSellersWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error)
	DeactivateAllButNewest(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a commissions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listOverridesParams struct {
	SellerID   *uuid.UUID
	ActiveOnly bool
	Search     string
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, override *models.CommissionOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error) {
	var override models.CommissionOverride
	if err := r.db.WithContext(ctx).First(&override, "id = ?", overrideID).Error; err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *repositoryImpl) GetActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.CommissionOverride, error) {
	var override models.CommissionOverride
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND active = ?", sellerID, true).
		Order("created_at DESC, id DESC").
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listOverridesParams) ([]models.CommissionOverride, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.CommissionOverride{})
	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.
			Joins("JOIN sellers ON sellers.id = commission_overrides.seller_id").
			Where("sellers.name ILIKE ? OR CAST(commission_overrides.seller_id AS TEXT) ILIKE ?", pattern, pattern)
	}
	if params.Cursor != nil {
		query = query.Where("(commission_overrides.created_at, commission_overrides.id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var overrides []models.CommissionOverride
	if err := query.Order("commission_overrides.created_at DESC, commission_overrides.id DESC").Limit(limit).Find(&overrides).Error; err != nil {
		return nil, nil, err
	}

	if len(overrides) > normalized {
		next := overrides[normalized]
		overrides = overrides[:normalized]
		return overrides, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return overrides, nil, nil
}

func (r *repositoryImpl) Update(ctx context.Context, override *models.CommissionOverride) error {
	return r.db.WithContext(ctx).Save(override).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, overrideID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.CommissionOverride{}, "id = ?", overrideID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionOverride{}).
		Where("seller_id = ? AND active = ?", sellerID, true).
		UpdateColumn("active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) ListSellersWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.CommissionOverride{}).
		Select("seller_id").
		Where("active = ?", true).
		Group("seller_id").
		Having("COUNT(*) > 1").
		Pluck("seller_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repositoryImpl) DeactivateAllButNewest(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	newest, err := r.GetActiveBySeller(ctx, sellerID)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.CommissionOverride{}).
		Where("seller_id = ? AND active = ? AND id <> ?", sellerID, true, newest.ID).
		UpdateColumn("active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
