package service

import (
	"database/sql"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/cache"
	"github.com/bitfantasy/nimo-pos/internal/pos/events"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"go.uber.org/zap"
)

// Deps 服务的外部依赖
type Deps struct {
	Cache     *cache.ReportCache
	Events    events.Publisher
	Logger    *zap.Logger
	TxOptions *sql.TxOptions
	Now       func() time.Time
}

func (d *Deps) withDefaults() {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if d.Cache == nil {
		d.Cache = cache.NewReportCache(nil, 0, d.Logger)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

func (d *Deps) txOpts() []*sql.TxOptions {
	if d.TxOptions == nil {
		return nil
	}
	return []*sql.TxOptions{d.TxOptions}
}

// Services POS服务集合
type Services struct {
	Inventory *InventoryService
	Sale      *SaleService
	Menu      *MenuService
	Supplier  *SupplierService
	Employee  *EmployeeService
	Dashboard *DashboardService
	Report    *ReportService
}

// NewServices 创建POS服务集合
func NewServices(repos *repository.Repositories, deps Deps) *Services {
	deps.withDefaults()
	inventory := NewInventoryService(repos, deps)
	return &Services{
		Inventory: inventory,
		Sale:      NewSaleService(repos, inventory, deps),
		Menu:      NewMenuService(repos, deps),
		Supplier:  NewSupplierService(repos, deps),
		Employee:  NewEmployeeService(repos, deps),
		Dashboard: NewDashboardService(repos, inventory, deps),
		Report:    NewReportService(repos, inventory),
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
