package service

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
)

// SupplierService 供应商
type SupplierService struct {
	repos *repository.Repositories
	deps  Deps
}

func NewSupplierService(repos *repository.Repositories, deps Deps) *SupplierService {
	deps.withDefaults()
	return &SupplierService{repos: repos, deps: deps}
}

// SupplierRequest 创建/更新供应商请求
type SupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *SupplierService) List(ctx context.Context) ([]entity.Supplier, error) {
	items, err := s.repos.Supplier.List(ctx)
	if err != nil {
		return nil, classify("list suppliers", err)
	}
	return items, nil
}

func (s *SupplierService) Get(ctx context.Context, id uint) (*entity.Supplier, error) {
	sup, err := s.repos.Supplier.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "supplier", ID: id}
		}
		return nil, classify("find supplier", err)
	}
	return sup, nil
}

func (s *SupplierService) Create(ctx context.Context, req *SupplierRequest) (*entity.Supplier, error) {
	if req.Name == "" {
		return nil, invalid("name", "is required")
	}
	if _, err := s.repos.Supplier.FindByName(ctx, req.Name); err == nil {
		return nil, invalid("name", "supplier %q already exists", req.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find supplier", err)
	}
	sup := &entity.Supplier{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := s.repos.Supplier.Create(ctx, sup); err != nil {
		return nil, classify("create supplier", err)
	}
	return sup, nil
}

func (s *SupplierService) Update(ctx context.Context, id uint, req *SupplierRequest) (*entity.Supplier, error) {
	if req.Name == "" {
		return nil, invalid("name", "is required")
	}
	sup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.repos.Supplier.FindByName(ctx, req.Name); err == nil {
		if other.ID != id {
			return nil, invalid("name", "supplier %q already exists", req.Name)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("check supplier name", err)
	}
	sup.Name = req.Name
	sup.Email = req.Email
	sup.Phone = req.Phone
	if err := s.repos.Supplier.Update(ctx, sup); err != nil {
		return nil, classify("update supplier", err)
	}
	return sup, nil
}

// Delete 删除供应商，仍有批次引用时拒绝
func (s *SupplierService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.repos.Batch.CountBySupplier(ctx, id)
	if err != nil {
		return classify("count batches", err)
	}
	if n > 0 {
		return invalid("supplier_id", "supplier %d is referenced by %d batches", id, n)
	}
	return classify("delete supplier", s.repos.Supplier.Delete(ctx, id))
}
