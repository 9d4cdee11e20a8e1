package repository

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchRepository 食材批次仓库
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Create(ctx context.Context, batch *entity.Batch) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(batch).Error
}

// ListByIngredient 某食材的全部批次（含供应商），按到期日升序
func (r *BatchRepository) ListByIngredient(ctx context.Context, ingredientID uint) ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("ingredient_id = ?", ingredientID).
		Order("expiry_date ASC").
		Order("id ASC").
		Find(&batches).Error
	return batches, err
}

// LockAvailable 查询并锁定某食材仍有剩余的批次（SELECT ... FOR UPDATE），
// 按到期日升序、同日按ID升序。必须在事务内调用。
func (r *BatchRepository) LockAvailable(ctx context.Context, ingredientID uint) ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ingredient_id = ? AND quantity_remaining > 0", ingredientID).
		Order("expiry_date ASC").
		Order("id ASC").
		Find(&batches).Error
	return batches, err
}

// UpdateRemaining 写回批次剩余量
func (r *BatchRepository) UpdateRemaining(ctx context.Context, batchID uint, remaining decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&entity.Batch{}).
		Where("id = ?", batchID).
		Update("quantity_remaining", remaining)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("batch %d: expected 1 row updated, got %d", batchID, res.RowsAffected)
	}
	return nil
}

// FindByID 根据ID查找批次
func (r *BatchRepository) FindByID(ctx context.Context, id uint) (*entity.Batch, error) {
	var batch entity.Batch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, notFound(err)
	}
	return &batch, nil
}

// CountBySupplier 引用该供应商的批次数
func (r *BatchRepository) CountBySupplier(ctx context.Context, supplierID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Batch{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, err
}
