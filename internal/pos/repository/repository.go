package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories POS仓库集合，所有仓库共享同一个 *gorm.DB（或同一个事务）
type Repositories struct {
	db *gorm.DB

	Ingredient *IngredientRepository
	Batch      *BatchRepository
	Movement   *MovementRepository
	Supplier   *SupplierRepository
	Employee   *EmployeeRepository
	Dish       *DishRepository
	Recipe     *RecipeRepository
	Sale       *SaleRepository
	Dashboard  *DashboardRepository
}

// NewRepositories 创建POS仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Ingredient: NewIngredientRepository(db),
		Batch:      NewBatchRepository(db),
		Movement:   NewMovementRepository(db),
		Supplier:   NewSupplierRepository(db),
		Employee:   NewEmployeeRepository(db),
		Dish:       NewDishRepository(db),
		Recipe:     NewRecipeRepository(db),
		Sale:       NewSaleRepository(db),
		Dashboard:  NewDashboardRepository(db),
	}
}

// Transaction 在一个数据库事务内执行 fn。fn 收到绑定到该事务的仓库集合；
// fn 返回错误或 panic 时整体回滚，否则提交。
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error, opts ...*sql.TxOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	}, opts...)
}

// DB 返回底层db
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 200 {
		size = 200
	}
	return page, size
}
