package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientRepository 食材类型仓库
type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

func (r *IngredientRepository) Create(ctx context.Context, ing *entity.IngredientType) error {
	return r.db.WithContext(ctx).Create(ing).Error
}

// FindByID 根据ID查找食材
func (r *IngredientRepository) FindByID(ctx context.Context, id uint) (*entity.IngredientType, error) {
	var ing entity.IngredientType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, notFound(err)
	}
	return &ing, nil
}

// FindByName 根据名称查找食材
func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*entity.IngredientType, error) {
	var ing entity.IngredientType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&ing).Error; err != nil {
		return nil, notFound(err)
	}
	return &ing, nil
}

// CurrentStock 汇总该食材所有批次的剩余量，食材不存在时为0。
// 逐行用 decimal 相加，sqlite 上 SUM 会按浮点计算。
func (r *IngredientRepository) CurrentStock(ctx context.Context, ingredientID uint) (decimal.Decimal, error) {
	var rows []struct{ QuantityRemaining decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&entity.Batch{}).
		Select("quantity_remaining").
		Where("ingredient_id = ?", ingredientID).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.QuantityRemaining)
	}
	return total, nil
}

// withStock 为食材补上批次剩余量之和
func (r *IngredientRepository) withStock(ctx context.Context, ings []entity.IngredientType) ([]entity.IngredientStock, error) {
	items := make([]entity.IngredientStock, 0, len(ings))
	if len(ings) == 0 {
		return items, nil
	}
	ids := make([]uint, 0, len(ings))
	for _, ing := range ings {
		ids = append(ids, ing.ID)
	}

	var rows []struct {
		IngredientID      uint
		QuantityRemaining decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&entity.Batch{}).
		Select("ingredient_id, quantity_remaining").
		Where("ingredient_id IN ? AND quantity_remaining > 0", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uint]decimal.Decimal, len(ings))
	for _, row := range rows {
		totals[row.IngredientID] = totals[row.IngredientID].Add(row.QuantityRemaining)
	}

	for _, ing := range ings {
		items = append(items, entity.IngredientStock{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Unit:         ing.Unit,
			TotalStock:   totals[ing.ID],
			ReorderLevel: ing.ReorderLevel,
		})
	}
	return items, nil
}

// ListWithStock 所有食材及聚合库存，按名称排序
func (r *IngredientRepository) ListWithStock(ctx context.Context) ([]entity.IngredientStock, error) {
	var ings []entity.IngredientType
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&ings).Error; err != nil {
		return nil, err
	}
	return r.withStock(ctx, ings)
}

// StockOf 单个食材的聚合库存
func (r *IngredientRepository) StockOf(ctx context.Context, ingredientID uint) (*entity.IngredientStock, error) {
	ing, err := r.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	items, err := r.withStock(ctx, []entity.IngredientType{*ing})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}
