package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository 配方仓库
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// ListByDish 某菜品的配方行（含食材），按ID排序
func (r *RecipeRepository) ListByDish(ctx context.Context, dishID uint) ([]entity.RecipeEntry, error) {
	var items []entity.RecipeEntry
	err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("dish_id = ?", dishID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*entity.RecipeEntry, error) {
	var e entity.RecipeEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *RecipeRepository) FindByDishAndIngredient(ctx context.Context, dishID, ingredientID uint) (*entity.RecipeEntry, error) {
	var e entity.RecipeEntry
	err := r.db.WithContext(ctx).
		Where("dish_id = ? AND ingredient_id = ?", dishID, ingredientID).
		First(&e).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *RecipeRepository) Create(ctx context.Context, e *entity.RecipeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *RecipeRepository) UpdateQuantity(ctx context.Context, id uint, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&entity.RecipeEntry{}).
		Where("id = ?", id).
		Update("quantity_needed", qty).Error
}

func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RecipeEntry{}).Error
}
