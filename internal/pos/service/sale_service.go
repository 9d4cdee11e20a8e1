package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/events"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService 销售处理：校验、按配方展开用料、检查库存、落单并扣减，全部在一个事务内完成
type SaleService struct {
	repos     *repository.Repositories
	inventory *InventoryService
	deps      Deps
}

// NewSaleService 创建销售服务
func NewSaleService(repos *repository.Repositories, inventory *InventoryService, deps Deps) *SaleService {
	deps.withDefaults()
	return &SaleService{repos: repos, inventory: inventory, deps: deps}
}

// OrderLine 订单行
type OrderLine struct {
	DishID    uint            `json:"dish_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ProcessSaleRequest 下单请求，TotalAmount 为收银端给出的总额，原样保存
type ProcessSaleRequest struct {
	EmployeeID  uint            `json:"employee_id" binding:"required"`
	Items       []OrderLine     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SaleReceipt 下单回执
type SaleReceipt struct {
	SaleID  uint   `json:"sale_id"`
	Message string `json:"message"`
}

// ingredientNeed 一个订单行对某食材的需求
type ingredientNeed struct {
	ingredient *entity.IngredientType
	amount     decimal.Decimal
}

type expandedLine struct {
	line  OrderLine
	needs []ingredientNeed
}

func validateOrder(req *ProcessSaleRequest) error {
	if req.EmployeeID == 0 {
		return invalid("employee_id", "is required")
	}
	if len(req.Items) == 0 {
		return invalid("items", "order must contain at least one line")
	}
	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		if line.UnitPrice.IsNegative() {
			return invalid(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
		}
	}
	if req.TotalAmount.IsNegative() {
		return invalid("total_amount", "must not be negative")
	}
	return nil
}

// ProcessSale 处理一笔销售。成功时销售单、销售行和全部批次扣减一起提交；
// 任一步失败整体回滚，库存不变且不留下销售记录。
func (s *SaleService) ProcessSale(ctx context.Context, req *ProcessSaleRequest, createdBy string) (*SaleReceipt, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		WaiterID:    req.EmployeeID,
		TotalAmount: req.TotalAmount,
		SaleTime:    s.deps.Now().UTC(),
	}
	var touched []uint

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Employee.FindByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "employee", ID: req.EmployeeID}
			}
			return err
		}

		lines, err := s.expand(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		demand := make(map[uint]decimal.Decimal)
		ingredients := make(map[uint]*entity.IngredientType)
		for _, l := range lines {
			for _, n := range l.needs {
				demand[n.ingredient.ID] = demand[n.ingredient.ID].Add(n.amount)
				ingredients[n.ingredient.ID] = n.ingredient
			}
		}
		touched = make([]uint, 0, len(demand))
		for id := range demand {
			touched = append(touched, id)
		}
		// 按食材ID升序加锁，避免并发事务互相等待
		sort.Slice(touched, func(i, j int) bool { return touched[i] < touched[j] })

		for _, id := range touched {
			batches, err := tx.Batch.LockAvailable(ctx, id)
			if err != nil {
				return err
			}
			available := decimal.Zero
			for _, b := range batches {
				available = available.Add(b.QuantityRemaining)
			}
			if available.LessThan(demand[id]) {
				ing := ingredients[id]
				return &InsufficientStockError{
					IngredientID: id,
					Ingredient:   ing.Name,
					Unit:         ing.Unit,
					Required:     demand[id],
					Available:    available,
				}
			}
		}

		if err := tx.Sale.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			item := &entity.SaleItem{
				SaleID:       sale.ID,
				DishID:       l.line.DishID,
				Quantity:     l.line.Quantity,
				PricePerItem: l.line.UnitPrice,
			}
			if err := tx.Sale.CreateItem(ctx, item); err != nil {
				return err
			}
			sale.Items = append(sale.Items, *item)
			for _, n := range l.needs {
				ref := movementRef{saleItemID: item.ID, createdBy: createdBy}
				if _, err := s.inventory.deduct(ctx, tx, n.ingredient, n.amount, ref); err != nil {
					return err
				}
			}
		}
		return nil
	}, s.deps.txOpts()...)
	if err != nil {
		err = classify("process sale", err)
		s.deps.Logger.Warn("Sale aborted",
			zap.Uint("employee_id", req.EmployeeID),
			zap.Int("lines", len(req.Items)),
			zap.Error(err))
		return nil, err
	}

	s.checkDeclaredTotal(sale)
	s.deps.Logger.Info("Sale committed",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("employee_id", sale.WaiterID),
		zap.Int("lines", len(sale.Items)))
	s.afterCommit(ctx, sale, touched)

	return &SaleReceipt{
		SaleID:  sale.ID,
		Message: fmt.Sprintf("Sale #%d processed successfully!", sale.ID),
	}, nil
}

// expand 按配方展开每个订单行的用料，同一菜品只读一次配方
func (s *SaleService) expand(ctx context.Context, tx *repository.Repositories, items []OrderLine) ([]expandedLine, error) {
	recipes := make(map[uint][]entity.RecipeEntry)
	lines := make([]expandedLine, 0, len(items))
	for _, line := range items {
		recipe, ok := recipes[line.DishID]
		if !ok {
			dish, err := tx.Dish.FindByID(ctx, line.DishID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, &NotFoundError{Resource: "dish", ID: line.DishID}
				}
				return nil, err
			}
			recipe, err = tx.Recipe.ListByDish(ctx, dish.ID)
			if err != nil {
				return nil, err
			}
			if len(recipe) == 0 {
				return nil, &MissingRecipeError{DishID: dish.ID, DishName: dish.Name}
			}
			recipes[line.DishID] = recipe
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		el := expandedLine{line: line}
		for _, entry := range recipe {
			if entry.Ingredient == nil {
				return nil, &NotFoundError{Resource: "ingredient", ID: entry.IngredientID}
			}
			el.needs = append(el.needs, ingredientNeed{
				ingredient: entry.Ingredient,
				amount:     entry.QuantityNeeded.Mul(qty),
			})
		}
		lines = append(lines, el)
	}
	return lines, nil
}

func (s *SaleService) checkDeclaredTotal(sale *entity.Sale) {
	computed := decimal.Zero
	for _, it := range sale.Items {
		computed = computed.Add(it.LineTotal())
	}
	if !computed.Equal(sale.TotalAmount) {
		s.deps.Logger.Warn("Declared total differs from line totals",
			zap.Uint("sale_id", sale.ID),
			zap.String("declared", sale.TotalAmount.String()),
			zap.String("computed", computed.String()))
	}
}

// afterCommit 清缓存并发布事件，失败只记日志
func (s *SaleService) afterCommit(ctx context.Context, sale *entity.Sale, touched []uint) {
	s.deps.Cache.Invalidate(ctx)

	if err := s.deps.Events.PublishSaleCompleted(ctx, events.SaleCompleted{
		SaleID:      sale.ID,
		EmployeeID:  sale.WaiterID,
		TotalAmount: sale.TotalAmount,
		Lines:       len(sale.Items),
		SoldAt:      sale.SaleTime,
	}); err != nil {
		s.deps.Logger.Warn("Publish sale.completed failed", zap.Uint("sale_id", sale.ID), zap.Error(err))
	}

	for _, id := range touched {
		stock, err := s.repos.Ingredient.StockOf(ctx, id)
		if err != nil {
			s.deps.Logger.Warn("Read stock after sale failed", zap.Uint("ingredient_id", id), zap.Error(err))
			continue
		}
		if !stock.IsLow() {
			continue
		}
		if err := s.deps.Events.PublishStockLow(ctx, events.StockLow{
			IngredientID: stock.IngredientID,
			Name:         stock.Name,
			Unit:         stock.Unit,
			CurrentStock: stock.TotalStock,
			ReorderLevel: stock.ReorderLevel,
		}); err != nil {
			s.deps.Logger.Warn("Publish stock.low failed", zap.Uint("ingredient_id", id), zap.Error(err))
		}
	}
}

// GetSale 获取销售单（含行）
func (s *SaleService) GetSale(ctx context.Context, id uint) (*entity.Sale, error) {
	sale, err := s.repos.Sale.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "sale", ID: id}
		}
		return nil, classify("get sale", err)
	}
	return sale, nil
}
