package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService 库存台账：批次入库、实时库存、低库存和按到期日扣减
type InventoryService struct {
	repos *repository.Repositories
	deps  Deps
}

// NewInventoryService 创建库存服务
func NewInventoryService(repos *repository.Repositories, deps Deps) *InventoryService {
	deps.withDefaults()
	return &InventoryService{repos: repos, deps: deps}
}

// CreateIngredientRequest 创建食材请求
type CreateIngredientRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// RecordDeliveryRequest 到货入库请求
type RecordDeliveryRequest struct {
	IngredientID uint            `json:"ingredient_id" binding:"required"`
	SupplierID   uint            `json:"supplier_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ExpiryDate   string          `json:"expiry_date" binding:"required"` // YYYY-MM-DD
}

// MovementListResult 流水列表结果
type MovementListResult struct {
	Items    []entity.StockMovement `json:"items"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// CurrentStock 实时库存：所有批次剩余量之和，从不读缓存。未知食材为0。
func (s *InventoryService) CurrentStock(ctx context.Context, ingredientID uint) (decimal.Decimal, error) {
	total, err := s.repos.Ingredient.CurrentStock(ctx, ingredientID)
	if err != nil {
		return decimal.Zero, classify("current stock", err)
	}
	return total, nil
}

// Stock 单个食材的聚合库存
func (s *InventoryService) Stock(ctx context.Context, ingredientID uint) (*entity.IngredientStock, error) {
	stock, err := s.repos.Ingredient.StockOf(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "ingredient", ID: ingredientID}
		}
		return nil, classify("ingredient stock", err)
	}
	return stock, nil
}

// ListIngredients 所有食材及库存，按名称排序
func (s *InventoryService) ListIngredients(ctx context.Context) ([]entity.IngredientStock, error) {
	items, err := s.repos.Ingredient.ListWithStock(ctx)
	if err != nil {
		return nil, classify("list ingredients", err)
	}
	return items, nil
}

// ListLowStock 库存不高于补货线的食材，按名称排序
func (s *InventoryService) ListLowStock(ctx context.Context) ([]entity.IngredientStock, error) {
	items, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]entity.IngredientStock, 0)
	for _, it := range items {
		if it.IsLow() {
			low = append(low, it)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Name < low[j].Name })
	return low, nil
}

// CreateIngredientType 新建食材类型
func (s *InventoryService) CreateIngredientType(ctx context.Context, req *CreateIngredientRequest) (*entity.IngredientType, error) {
	if req.Name == "" {
		return nil, invalid("name", "is required")
	}
	if req.Unit == "" {
		return nil, invalid("unit", "is required")
	}
	if req.ReorderLevel.IsNegative() {
		return nil, invalid("reorder_level", "must not be negative")
	}
	if _, err := s.repos.Ingredient.FindByName(ctx, req.Name); err == nil {
		return nil, invalid("name", "ingredient %q already exists", req.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classify("find ingredient", err)
	}

	ing := &entity.IngredientType{
		Name:         req.Name,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
	}
	if err := s.repos.Ingredient.Create(ctx, ing); err != nil {
		return nil, classify("create ingredient", err)
	}
	s.deps.Cache.Invalidate(ctx)
	return ing, nil
}

// ListBatches 某食材的批次（含供应商），按到期日排序
func (s *InventoryService) ListBatches(ctx context.Context, ingredientID uint) ([]entity.Batch, error) {
	if _, err := s.repos.Ingredient.FindByID(ctx, ingredientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "ingredient", ID: ingredientID}
		}
		return nil, classify("find ingredient", err)
	}
	batches, err := s.repos.Batch.ListByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, classify("list batches", err)
	}
	return batches, nil
}

// RecordDelivery 到货入库：新建批次（剩余=到货量，到货日=今天）并写入库流水
func (s *InventoryService) RecordDelivery(ctx context.Context, req *RecordDeliveryRequest, createdBy string) (*entity.Batch, error) {
	if !req.Quantity.IsPositive() {
		return nil, invalid("quantity", "must be greater than 0")
	}
	if req.CostPerUnit.IsNegative() {
		return nil, invalid("cost_per_unit", "must not be negative")
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, invalid("expiry_date", "must be YYYY-MM-DD")
	}

	batch := &entity.Batch{
		IngredientID:      req.IngredientID,
		SupplierID:        req.SupplierID,
		QuantityReceived:  req.Quantity,
		QuantityRemaining: req.Quantity,
		CostPerUnit:       req.CostPerUnit,
		ReceivedDate:      today(s.deps.Now()),
		ExpiryDate:        expiry.UTC(),
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Ingredient.FindByID(ctx, req.IngredientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "ingredient", ID: req.IngredientID}
			}
			return err
		}
		if _, err := tx.Supplier.FindByID(ctx, req.SupplierID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "supplier", ID: req.SupplierID}
			}
			return err
		}
		if err := tx.Batch.Create(ctx, batch); err != nil {
			return err
		}
		return tx.Movement.Create(ctx, &entity.StockMovement{
			IngredientID:  batch.IngredientID,
			BatchID:       batch.ID,
			MovementType:  entity.MovementDeliveryIn,
			Quantity:      batch.QuantityReceived,
			ReferenceType: "DELIVERY",
			ReferenceID:   batch.ID,
			CreatedBy:     createdBy,
		})
	}, s.deps.txOpts()...)
	if err != nil {
		return nil, classify("record delivery", err)
	}

	s.deps.Cache.Invalidate(ctx)
	s.deps.Logger.Info("Delivery recorded",
		zap.Uint("batch_id", batch.ID),
		zap.Uint("ingredient_id", batch.IngredientID),
		zap.String("quantity", batch.QuantityReceived.String()))
	return batch, nil
}

// ListMovements 库存流水
func (s *InventoryService) ListMovements(ctx context.Context, ingredientID uint, page, size int) (*MovementListResult, error) {
	items, total, err := s.repos.Movement.List(ctx, ingredientID, page, size)
	if err != nil {
		return nil, classify("list movements", err)
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &MovementListResult{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// movementRef 扣减来源
type movementRef struct {
	saleItemID uint
	createdBy  string
}

// deduct 在事务 tx 内按到期日先后扣减某食材 amount。先锁定并校验可用量，
// 不足则返回 InsufficientStockError 且不修改任何批次。
func (s *InventoryService) deduct(ctx context.Context, tx *repository.Repositories, ing *entity.IngredientType, amount decimal.Decimal, ref movementRef) ([]Depletion, error) {
	batches, err := tx.Batch.LockAvailable(ctx, ing.ID)
	if err != nil {
		return nil, err
	}
	plan, available, ok := PlanDepletion(batches, amount)
	if !ok {
		return nil, &InsufficientStockError{
			IngredientID: ing.ID,
			Ingredient:   ing.Name,
			Unit:         ing.Unit,
			Required:     amount,
			Available:    available,
		}
	}
	for _, d := range plan {
		if err := tx.Batch.UpdateRemaining(ctx, d.BatchID, d.After); err != nil {
			return nil, err
		}
		if err := tx.Movement.Create(ctx, &entity.StockMovement{
			IngredientID:  ing.ID,
			BatchID:       d.BatchID,
			MovementType:  entity.MovementSaleOut,
			Quantity:      d.Deducted.Neg(),
			ReferenceType: "SALE_ITEM",
			ReferenceID:   ref.saleItemID,
			CreatedBy:     ref.createdBy,
		}); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
