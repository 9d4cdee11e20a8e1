package service

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"github.com/shopspring/decimal"
)

// MenuService 菜品与配方
type MenuService struct {
	repos *repository.Repositories
	deps  Deps
}

func NewMenuService(repos *repository.Repositories, deps Deps) *MenuService {
	deps.withDefaults()
	return &MenuService{repos: repos, deps: deps}
}

// DishRequest 创建/更新菜品请求
type DishRequest struct {
	Name     string          `json:"dname" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// AddRecipeEntryRequest 添加配方行请求
type AddRecipeEntryRequest struct {
	IngredientID   uint            `json:"ingredient_id" binding:"required"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

// UpdateRecipeEntryRequest 更新配方行请求
type UpdateRecipeEntryRequest struct {
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
}

func validateDish(req *DishRequest) error {
	if req.Name == "" {
		return invalid("dname", "is required")
	}
	if req.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	return nil
}

func (s *MenuService) findDish(ctx context.Context, id uint) (*entity.Dish, error) {
	dish, err := s.repos.Dish.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "dish", ID: id}
		}
		return nil, classify("find dish", err)
	}
	return dish, nil
}

// ListDishes 菜品列表
func (s *MenuService) ListDishes(ctx context.Context, category string) ([]entity.Dish, error) {
	items, err := s.repos.Dish.List(ctx, category)
	if err != nil {
		return nil, classify("list dishes", err)
	}
	return items, nil
}

// GetDish 菜品详情（含配方）
func (s *MenuService) GetDish(ctx context.Context, id uint) (*entity.Dish, error) {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe, err := s.repos.Recipe.ListByDish(ctx, id)
	if err != nil {
		return nil, classify("list recipe", err)
	}
	dish.Recipe = recipe
	return dish, nil
}

// CreateDish 新建菜品
func (s *MenuService) CreateDish(ctx context.Context, req *DishRequest) (*entity.Dish, error) {
	if err := validateDish(req); err != nil {
		return nil, err
	}
	if _, err := s.repos.Dish.FindByName(ctx, req.Name); err == nil {
		return nil, invalid("dname", "dish %q already exists", req.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find dish", err)
	}
	dish := &entity.Dish{Name: req.Name, Price: req.Price, Category: req.Category}
	if err := s.repos.Dish.Create(ctx, dish); err != nil {
		return nil, classify("create dish", err)
	}
	return dish, nil
}

// UpdateDish 更新菜品。已售出的销售行保留各自的单价快照。
func (s *MenuService) UpdateDish(ctx context.Context, id uint, req *DishRequest) (*entity.Dish, error) {
	if err := validateDish(req); err != nil {
		return nil, err
	}
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.repos.Dish.FindByName(ctx, req.Name); err == nil {
		if other.ID != id {
			return nil, invalid("dname", "dish %q already exists", req.Name)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("check dish name", err)
	}
	dish.Name = req.Name
	dish.Price = req.Price
	dish.Category = req.Category
	if err := s.repos.Dish.Update(ctx, dish); err != nil {
		return nil, classify("update dish", err)
	}
	return dish, nil
}

// DeleteDish 删除菜品，已有销售记录时拒绝
func (s *MenuService) DeleteDish(ctx context.Context, id uint) error {
	if _, err := s.findDish(ctx, id); err != nil {
		return err
	}
	n, err := s.repos.Dish.CountSaleItems(ctx, id)
	if err != nil {
		return classify("count sale items", err)
	}
	if n > 0 {
		return invalid("dish_id", "dish %d has %d sale items and cannot be deleted", id, n)
	}
	return classify("delete dish", s.repos.Dish.Delete(ctx, id))
}

// GetRecipe 菜品配方（含食材名称和单位）
func (s *MenuService) GetRecipe(ctx context.Context, dishID uint) ([]entity.RecipeEntry, error) {
	if _, err := s.findDish(ctx, dishID); err != nil {
		return nil, err
	}
	recipe, err := s.repos.Recipe.ListByDish(ctx, dishID)
	if err != nil {
		return nil, classify("list recipe", err)
	}
	return recipe, nil
}

// AddRecipeEntry 给菜品添加一种食材，同一食材不能重复添加
func (s *MenuService) AddRecipeEntry(ctx context.Context, dishID uint, req *AddRecipeEntryRequest) (*entity.RecipeEntry, error) {
	if !req.QuantityNeeded.IsPositive() {
		return nil, invalid("quantity_needed", "must be greater than 0")
	}
	if _, err := s.findDish(ctx, dishID); err != nil {
		return nil, err
	}
	ing, err := s.repos.Ingredient.FindByID(ctx, req.IngredientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "ingredient", ID: req.IngredientID}
		}
		return nil, classify("find ingredient", err)
	}
	if _, err := s.repos.Recipe.FindByDishAndIngredient(ctx, dishID, req.IngredientID); err == nil {
		return nil, invalid("ingredient_id", "%s is already in the recipe", ing.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find recipe entry", err)
	}

	entry := &entity.RecipeEntry{
		DishID:         dishID,
		IngredientID:   req.IngredientID,
		QuantityNeeded: req.QuantityNeeded,
	}
	if err := s.repos.Recipe.Create(ctx, entry); err != nil {
		return nil, classify("create recipe entry", err)
	}
	entry.Ingredient = ing
	return entry, nil
}

// UpdateRecipeEntry 修改配方行用量
func (s *MenuService) UpdateRecipeEntry(ctx context.Context, entryID uint, req *UpdateRecipeEntryRequest) (*entity.RecipeEntry, error) {
	if !req.QuantityNeeded.IsPositive() {
		return nil, invalid("quantity_needed", "must be greater than 0")
	}
	entry, err := s.findEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Recipe.UpdateQuantity(ctx, entryID, req.QuantityNeeded); err != nil {
		return nil, classify("update recipe entry", err)
	}
	entry.QuantityNeeded = req.QuantityNeeded
	return entry, nil
}

// RemoveRecipeEntry 删除配方行
func (s *MenuService) RemoveRecipeEntry(ctx context.Context, entryID uint) error {
	if _, err := s.findEntry(ctx, entryID); err != nil {
		return err
	}
	return classify("delete recipe entry", s.repos.Recipe.Delete(ctx, entryID))
}

func (s *MenuService) findEntry(ctx context.Context, id uint) (*entity.RecipeEntry, error) {
	entry, err := s.repos.Recipe.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "recipe entry", ID: id}
		}
		return nil, classify("find recipe entry", err)
	}
	return entry, nil
}
