package pickup

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Repository exposes persistence helpers for pickup points.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, point *models.PickupPoint) error
	GetByID(ctx context.Context, pointID uuid.UUID) (*models.PickupPoint, error)
	List(ctx context.Context, params listPointsParams) ([]models.PickupPoint, *pagination.Cursor, error)
	Update(ctx context.Context, point *models.PickupPoint) error
	Deactivate(ctx context.Context, pointID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a pickup point repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listPointsParams struct {
	ActiveOnly bool
	City       string
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, point *models.PickupPoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, pointID uuid.UUID) (*models.PickupPoint, error) {
	var point models.PickupPoint
	if err := r.db.WithContext(ctx).First(&point, "id = ?", pointID).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listPointsParams) ([]models.PickupPoint, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.PickupPoint{})
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if params.City != "" {
		query = query.Where("city = ?", params.City)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.PickupPoint
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) Update(ctx context.Context, point *models.PickupPoint) error {
	return r.db.WithContext(ctx).Save(point).Error
}

func (r *repositoryImpl) Deactivate(ctx context.Context, pointID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PickupPoint{}).
		Where("id = ? AND active = ?", pointID, true).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
