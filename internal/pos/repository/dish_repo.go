package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DishRepository 菜品仓库
type DishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) *DishRepository {
	return &DishRepository{db: db}
}

func (r *DishRepository) Create(ctx context.Context, d *entity.Dish) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *DishRepository) Update(ctx context.Context, d *entity.Dish) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error
}

// Delete 删除菜品及其配方
func (r *DishRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dish_id = ?", id).Delete(&entity.RecipeEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Dish{}).Error
	})
}

func (r *DishRepository) FindByID(ctx context.Context, id uint) (*entity.Dish, error) {
	var d entity.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *DishRepository) FindByName(ctx context.Context, name string) (*entity.Dish, error) {
	var d entity.Dish
	if err := r.db.WithContext(ctx).Where("dname = ?", name).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// List 菜品列表，按名称排序
func (r *DishRepository) List(ctx context.Context, category string) ([]entity.Dish, error) {
	query := r.db.WithContext(ctx).Model(&entity.Dish{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var items []entity.Dish
	err := query.Order("dname ASC").Find(&items).Error
	return items, err
}

// CountSaleItems 引用该菜品的销售行数
func (r *DishRepository) CountSaleItems(ctx context.Context, dishID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.SaleItem{}).Where("dish_id = ?", dishID).Count(&n).Error
	return n, err
}
