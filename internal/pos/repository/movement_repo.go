package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"gorm.io/gorm"
)

// MovementRepository 库存流水仓库
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// List 流水列表，ingredientID 为0时不过滤
func (r *MovementRepository) List(ctx context.Context, ingredientID uint, page, size int) ([]entity.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.StockMovement{})
	if ingredientID != 0 {
		query = query.Where("ingredient_id = ?", ingredientID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, size = normalizePage(page, size)
	var items []entity.StockMovement
	err := query.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// ListByReference 某引用对象（如销售行）产生的流水
func (r *MovementRepository) ListByReference(ctx context.Context, refType string, refID uint) ([]entity.StockMovement, error) {
	var items []entity.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
