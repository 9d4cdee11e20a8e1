package entity

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openWithForeignKeys(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func TestAutoMigrate_ForeignKeys(t *testing.T) {
	db := openWithForeignKeys(t)
	m := db.Migrator()

	assert.True(t, m.HasConstraint(&Sale{}, "Employee"), "sales.waiter_id -> employee")
	assert.True(t, m.HasConstraint(&SaleItem{}, "Dish"), "sale_items.dish_id -> dish")
	assert.True(t, m.HasConstraint(&Batch{}, "Ingredient"), "ingredient_batches.ingredient_id -> ingredients")
	assert.True(t, m.HasConstraint(&Batch{}, "Supplier"), "ingredient_batches.supplier_id -> suppliers")
}

func TestSale_RejectsUnknownEmployee(t *testing.T) {
	db := openWithForeignKeys(t)

	sale := &Sale{WaiterID: 42, TotalAmount: decimal.NewFromInt(1), SaleTime: time.Now().UTC()}
	assert.Error(t, db.Omit("Employee", "Items").Create(sale).Error)

	emp := &Employee{Role: RoleWaiter, FirstName: "Wendy", Email: "wendy@example.com"}
	require.NoError(t, db.Create(emp).Error)
	sale.WaiterID = emp.ID
	assert.NoError(t, db.Omit("Employee", "Items").Create(sale).Error)

	item := &SaleItem{SaleID: sale.ID, DishID: 99, Quantity: 1, PricePerItem: decimal.NewFromInt(1)}
	assert.Error(t, db.Omit("Dish").Create(item).Error)
}
