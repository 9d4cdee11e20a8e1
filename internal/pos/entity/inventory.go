package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType 库存流水类型
const (
	MovementDeliveryIn = "DELIVERY_IN" // 到货入库
	MovementSaleOut    = "SALE_OUT"    // 销售消耗
)

// IngredientType 食材类型
type IngredientType struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Unit         string          `json:"unit" gorm:"size:20;not null"`
	ReorderLevel decimal.Decimal `json:"reorder_level" gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (IngredientType) TableName() string {
	return "ingredients"
}

// Batch 食材批次，一次到货对应一条
type Batch struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	IngredientID      uint            `json:"ingredient_id" gorm:"not null;index:idx_batch_fifo,priority:1"`
	SupplierID        uint            `json:"supplier_id" gorm:"not null;index"`
	QuantityReceived  decimal.Decimal `json:"quantity_received" gorm:"type:decimal(12,4);not null"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining" gorm:"type:decimal(12,4);not null"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit" gorm:"type:decimal(12,4);not null;default:0"`
	ReceivedDate      time.Time       `json:"received_date" gorm:"not null"`
	ExpiryDate        time.Time       `json:"expiry_date" gorm:"not null;index:idx_batch_fifo,priority:2"`

	Ingredient *IngredientType `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
	Supplier   *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Batch) TableName() string {
	return "ingredient_batches"
}

// Consumed 已消耗数量
func (b *Batch) Consumed() decimal.Decimal {
	return b.QuantityReceived.Sub(b.QuantityRemaining)
}

// StockMovement 库存流水，正=入，负=出
type StockMovement struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	IngredientID  uint            `json:"ingredient_id" gorm:"not null;index"`
	BatchID       uint            `json:"batch_id" gorm:"not null;index"`
	MovementType  string          `json:"movement_type" gorm:"size:20;not null"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:decimal(12,4);not null"`
	ReferenceType string          `json:"reference_type" gorm:"size:20"` // SALE_ITEM, DELIVERY
	ReferenceID   uint            `json:"reference_id" gorm:"index"`
	CreatedBy     string          `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// IngredientStock 食材及其聚合库存
type IngredientStock struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"ingredient_name"`
	Unit         string          `json:"unit"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// IsLow 库存不高于补货线即视为低库存
func (s IngredientStock) IsLow() bool {
	return s.TotalStock.LessThanOrEqual(s.ReorderLevel)
}
