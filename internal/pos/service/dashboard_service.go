package service

import (
	"context"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/cache"
	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
)

// DashboardService 经营看板（只读）
type DashboardService struct {
	repos     *repository.Repositories
	inventory *InventoryService
	deps      Deps
}

func NewDashboardService(repos *repository.Repositories, inventory *InventoryService, deps Deps) *DashboardService {
	deps.withDefaults()
	return &DashboardService{repos: repos, inventory: inventory, deps: deps}
}

// KPIs 总营业额、售出份数、销售单数
func (s *DashboardService) KPIs(ctx context.Context) (*repository.KPIs, error) {
	var cached repository.KPIs
	if s.deps.Cache.Get(ctx, cache.KeyKPIs, &cached) {
		return &cached, nil
	}
	k, err := s.repos.Dashboard.KPIs(ctx)
	if err != nil {
		return nil, classify("dashboard kpis", err)
	}
	s.deps.Cache.Set(ctx, cache.KeyKPIs, k)
	return k, nil
}

// SalesByDay 最近 days 天的每日营业额
func (s *DashboardService) SalesByDay(ctx context.Context, days int) ([]repository.DailySales, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := s.repos.Dashboard.SalesByDay(ctx, s.since(days))
	if err != nil {
		return nil, classify("sales by day", err)
	}
	return rows, nil
}

// TopDishes 销量前 limit 的菜品
func (s *DashboardService) TopDishes(ctx context.Context, limit int) ([]repository.DishSales, error) {
	rows, err := s.repos.Dashboard.TopDishes(ctx, limit)
	if err != nil {
		return nil, classify("top dishes", err)
	}
	return rows, nil
}

// LowStock 低库存列表，走报表缓存
func (s *DashboardService) LowStock(ctx context.Context) ([]entity.IngredientStock, error) {
	var cached []entity.IngredientStock
	if s.deps.Cache.Get(ctx, cache.KeyLowStock, &cached) {
		return cached, nil
	}
	items, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	s.deps.Cache.Set(ctx, cache.KeyLowStock, items)
	return items, nil
}

// since 最近 days 天窗口的起点（含今天）
func (s *DashboardService) since(days int) time.Time {
	return today(s.deps.Now()).AddDate(0, 0, -(days - 1))
}
