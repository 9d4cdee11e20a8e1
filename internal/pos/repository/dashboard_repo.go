package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository 看板统计查询
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// KPIs 看板指标
type KPIs struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalDishesSold int64           `json:"total_dishes_sold"`
	NumSales        int64           `json:"num_sales"`
}

// DailySales 每日销售额
type DailySales struct {
	SaleDate   string          `json:"sale_date"`
	DailySales decimal.Decimal `json:"daily_sales"`
}

// DishSales 菜品销量
type DishSales struct {
	Name      string `json:"dname"`
	TotalSold int64  `json:"total_sold"`
}

func (r *DashboardRepository) KPIs(ctx context.Context) (*KPIs, error) {
	var k KPIs
	db := r.db.WithContext(ctx)

	// 金额逐单相加，避免 sqlite 按浮点求和
	var totals []struct{ TotalAmount decimal.Decimal }
	if err := db.Model(&entity.Sale{}).Select("total_amount").Scan(&totals).Error; err != nil {
		return nil, err
	}
	k.TotalRevenue = decimal.Zero
	for _, t := range totals {
		k.TotalRevenue = k.TotalRevenue.Add(t.TotalAmount)
	}

	var sold struct{ Total int64 }
	if err := db.Raw("SELECT COALESCE(SUM(quantity), 0) AS total FROM sale_items").Scan(&sold).Error; err != nil {
		return nil, err
	}
	k.TotalDishesSold = sold.Total

	var count struct{ Total int64 }
	if err := db.Raw("SELECT COUNT(id) AS total FROM sales").Scan(&count).Error; err != nil {
		return nil, err
	}
	k.NumSales = count.Total
	return &k, nil
}

// SalesByDay since 之后每天（UTC）的销售额，按日期升序。
// 按日汇总在内存里做，sqlite 存时间的文本格式不能直接交给 DATE()。
func (r *DashboardRepository) SalesByDay(ctx context.Context, since time.Time) ([]DailySales, error) {
	var sales []struct {
		SaleTime    time.Time
		TotalAmount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("sale_time, total_amount").
		Where("sale_time >= ?", since.UTC()).
		Order("sale_time ASC").
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	rows := make([]DailySales, 0)
	for _, s := range sales {
		day := s.SaleTime.UTC().Format("2006-01-02")
		if n := len(rows); n > 0 && rows[n-1].SaleDate == day {
			rows[n-1].DailySales = rows[n-1].DailySales.Add(s.TotalAmount)
			continue
		}
		rows = append(rows, DailySales{SaleDate: day, DailySales: s.TotalAmount})
	}
	return rows, nil
}

// TopDishes 销量最高的菜品
func (r *DashboardRepository) TopDishes(ctx context.Context, limit int) ([]DishSales, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DishSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT d.dname AS name, SUM(si.quantity) AS total_sold
		FROM sale_items si
		JOIN dish d ON si.dish_id = d.id
		GROUP BY d.dname
		ORDER BY total_sold DESC, d.dname ASC
		LIMIT ?
	`, limit).Scan(&rows).Error
	return rows, err
}
