package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有POS表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Supplier{},
		&Employee{},

		// 库存
		&IngredientType{},
		&Batch{},
		&StockMovement{},

		// 菜单
		&Dish{},
		&RecipeEntry{},

		// 销售
		&Sale{},
		&SaleItem{},
	)
}
