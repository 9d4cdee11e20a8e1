package service

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
)

// EmployeeService 员工
type EmployeeService struct {
	repos *repository.Repositories
	deps  Deps
}

func NewEmployeeService(repos *repository.Repositories, deps Deps) *EmployeeService {
	deps.withDefaults()
	return &EmployeeService{repos: repos, deps: deps}
}

// EmployeeRequest 创建/更新员工请求
type EmployeeRequest struct {
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"fname" binding:"required"`
	LastName  string `json:"lname"`
	Email     string `json:"email" binding:"required"`
}

func (s *EmployeeService) List(ctx context.Context) ([]entity.Employee, error) {
	items, err := s.repos.Employee.List(ctx)
	if err != nil {
		return nil, classify("list employees", err)
	}
	return items, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*entity.Employee, error) {
	e, err := s.repos.Employee.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "employee", ID: id}
		}
		return nil, classify("find employee", err)
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, req *EmployeeRequest) (*entity.Employee, error) {
	if err := validateEmployee(req); err != nil {
		return nil, err
	}
	if _, err := s.repos.Employee.FindByEmail(ctx, req.Email); err == nil {
		return nil, invalid("email", "%s is already registered", req.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find employee", err)
	}
	e := &entity.Employee{
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := s.repos.Employee.Create(ctx, e); err != nil {
		return nil, classify("create employee", err)
	}
	return e, nil
}

func validateEmployee(req *EmployeeRequest) error {
	if !entity.ValidRole(req.Role) {
		return invalid("role", "unknown role %q", req.Role)
	}
	if req.FirstName == "" {
		return invalid("fname", "is required")
	}
	if req.Email == "" {
		return invalid("email", "is required")
	}
	return nil
}

// Update 更新员工，邮箱不能与其他员工重复
func (s *EmployeeService) Update(ctx context.Context, id uint, req *EmployeeRequest) (*entity.Employee, error) {
	if err := validateEmployee(req); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.repos.Employee.FindByEmail(ctx, req.Email); err == nil {
		if other.ID != id {
			return nil, invalid("email", "%s is already registered", req.Email)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find employee", err)
	}
	e.Role = req.Role
	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	if err := s.repos.Employee.Update(ctx, e); err != nil {
		return nil, classify("update employee", err)
	}
	return e, nil
}

// Delete 删除员工，已经手过销售单时拒绝
func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.repos.Employee.CountSales(ctx, id)
	if err != nil {
		return classify("count sales", err)
	}
	if n > 0 {
		return invalid("employee_id", "employee %d has %d sales and cannot be deleted", id, n)
	}
	return classify("delete employee", s.repos.Employee.Delete(ctx, id))
}
