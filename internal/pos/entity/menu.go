package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish 菜品
type Dish struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"dname" gorm:"column:dname;size:100;not null;uniqueIndex"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Category  string          `json:"category" gorm:"size:50"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Recipe []RecipeEntry `json:"recipe,omitempty" gorm:"foreignKey:DishID"`
}

func (Dish) TableName() string {
	return "dish"
}

// RecipeEntry 配方行：一份菜品所需的某种食材数量
type RecipeEntry struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	DishID         uint            `json:"dish_id" gorm:"not null;uniqueIndex:idx_recipe_dish_ingredient,priority:1"`
	IngredientID   uint            `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_dish_ingredient,priority:2"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed" gorm:"type:decimal(12,4);not null"`

	Ingredient *IngredientType `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeEntry) TableName() string {
	return "recipe"
}
