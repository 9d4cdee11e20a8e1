package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale 销售单头，创建后不可修改
type Sale struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	WaiterID    uint            `json:"waiter_id" gorm:"not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	SaleTime    time.Time       `json:"sale_time" gorm:"not null;index"`

	Employee *Employee  `json:"employee,omitempty" gorm:"foreignKey:WaiterID"`
	Items    []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem 销售行，单价为下单时的快照
type SaleItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SaleID       uint            `json:"sale_id" gorm:"not null;index"`
	DishID       uint            `json:"dish_id" gorm:"not null;index"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	PricePerItem decimal.Decimal `json:"price_per_item" gorm:"type:decimal(10,2);not null"`

	Dish *Dish `json:"dish,omitempty" gorm:"foreignKey:DishID"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// LineTotal 行金额
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
