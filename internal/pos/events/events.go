package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoutingSaleCompleted = "pos.sale.completed"
	RoutingStockLow      = "pos.stock.low"
)

// SaleCompleted 销售提交后发布
type SaleCompleted struct {
	SaleID      uint            `json:"sale_id"`
	EmployeeID  uint            `json:"employee_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       int             `json:"lines"`
	SoldAt      time.Time       `json:"sold_at"`
}

// StockLow 扣减后库存降到补货点及以下时发布
type StockLow struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"ingredient_name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"total_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// Publisher 领域事件发布。事务提交之后才调用，失败不影响已提交的数据。
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, evt SaleCompleted) error
	PublishStockLow(ctx context.Context, evt StockLow) error
}

// NopPublisher 未配置消息队列时使用
type NopPublisher struct{}

func (NopPublisher) PublishSaleCompleted(context.Context, SaleCompleted) error { return nil }
func (NopPublisher) PublishStockLow(context.Context, StockLow) error           { return nil }
