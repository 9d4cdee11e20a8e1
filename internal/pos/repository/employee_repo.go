package repository

import (
	"context"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"gorm.io/gorm"
)

// EmployeeRepository 员工仓库
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, e *entity.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Employee{}).Error
}

// CountSales 该员工经手的销售单数
func (r *EmployeeRepository) CountSales(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).Where("waiter_id = ?", id).Count(&n).Error
	return n, err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uint) (*entity.Employee, error) {
	var e entity.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	var e entity.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	var items []entity.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}
