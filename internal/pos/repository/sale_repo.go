package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleRepository 销售仓库
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create 写入销售单头（不含行）
func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *SaleRepository) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// FindByID 根据ID查找销售单（含行）
func (r *SaleRepository) FindByID(ctx context.Context, id uint) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&sale).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// Count 销售单数和销售行数
func (r *SaleRepository) Count(ctx context.Context) (sales int64, items int64, err error) {
	if err = r.db.WithContext(ctx).Model(&entity.Sale{}).Count(&sales).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&entity.SaleItem{}).Count(&items).Error
	return
}
