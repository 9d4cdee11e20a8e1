package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/testutil"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type saleFeature struct {
	t           *testing.T
	f           *fixture
	ingredients map[string]*entity.IngredientType
	dishes      map[string]*entity.Dish
	receipt     *SaleReceipt
	err         error
}

func (s *saleFeature) reset() {
	s.f = newFixture(s.t)
	s.ingredients = map[string]*entity.IngredientType{}
	s.dishes = map[string]*entity.Dish{}
	s.receipt = nil
	s.err = nil
}

func (s *saleFeature) anIngredientMeasuredInWithReorderLevel(name, unit, level string) error {
	s.ingredients[name] = testutil.SeedIngredient(s.t, s.f.db, name, unit, level)
	return nil
}

func (s *saleFeature) aBatchOfExpiringOn(qty, name, expiry string) error {
	ing, ok := s.ingredients[name]
	if !ok {
		return fmt.Errorf("unknown ingredient %q", name)
	}
	day, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return err
	}
	testutil.SeedBatch(s.t, s.f.db, ing.ID, s.f.supplier.ID, qty, day)
	return nil
}

func (s *saleFeature) aDishThatNeedsPerUnit(dish, qty, name string) error {
	ing, ok := s.ingredients[name]
	if !ok {
		return fmt.Errorf("unknown ingredient %q", name)
	}
	s.dishes[dish] = testutil.SeedDish(s.t, s.f.db, dish, "5", map[uint]string{ing.ID: qty})
	return nil
}

func (s *saleFeature) aDishWithNoRecipe(dish string) error {
	s.dishes[dish] = testutil.SeedDish(s.t, s.f.db, dish, "5", nil)
	return nil
}

func (s *saleFeature) sell(lines []OrderLine) {
	s.receipt, s.err = s.f.svc.Sale.ProcessSale(context.Background(), s.f.order(lines...), "godog")
}

func (s *saleFeature) iSell(qty int, dish string) error {
	d, ok := s.dishes[dish]
	if !ok {
		return fmt.Errorf("unknown dish %q", dish)
	}
	s.sell([]OrderLine{lineOf(d, qty)})
	return nil
}

func (s *saleFeature) iSellTheOrder(table *godog.Table) error {
	var lines []OrderLine
	for _, row := range table.Rows[1:] {
		d, ok := s.dishes[row.Cells[0].Value]
		if !ok {
			return fmt.Errorf("unknown dish %q", row.Cells[0].Value)
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		lines = append(lines, lineOf(d, qty))
	}
	s.sell(lines)
	return nil
}

func (s *saleFeature) theSaleSucceeds() error {
	if s.err != nil {
		return fmt.Errorf("expected success, got %v", s.err)
	}
	want := fmt.Sprintf("Sale #%d processed successfully!", s.receipt.SaleID)
	if s.receipt.Message != want {
		return fmt.Errorf("expected message %q, got %q", want, s.receipt.Message)
	}
	return nil
}

func (s *saleFeature) theSaleFailsWithInsufficientStock(name, required, available string) error {
	var ise *InsufficientStockError
	if !errors.As(s.err, &ise) {
		return fmt.Errorf("expected InsufficientStockError, got %v", s.err)
	}
	if ise.Ingredient != name {
		return fmt.Errorf("expected ingredient %q, got %q", name, ise.Ingredient)
	}
	if !ise.Required.Equal(decimal.RequireFromString(required)) {
		return fmt.Errorf("expected required %s, got %s", required, ise.Required)
	}
	if !ise.Available.Equal(decimal.RequireFromString(available)) {
		return fmt.Errorf("expected available %s, got %s", available, ise.Available)
	}
	return nil
}

func (s *saleFeature) theSaleFailsWithAMissingRecipeFor(dish string) error {
	var mre *MissingRecipeError
	if !errors.As(s.err, &mre) {
		return fmt.Errorf("expected MissingRecipeError, got %v", s.err)
	}
	if mre.DishName != dish {
		return fmt.Errorf("expected dish %q, got %q", dish, mre.DishName)
	}
	return nil
}

func (s *saleFeature) theStockOfIs(name, want string) error {
	ing, ok := s.ingredients[name]
	if !ok {
		return fmt.Errorf("unknown ingredient %q", name)
	}
	got, err := s.f.svc.Inventory.CurrentStock(context.Background(), ing.ID)
	if err != nil {
		return err
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected stock %s, got %s", want, got)
	}
	return nil
}

func (s *saleFeature) theBatchExpiringOnHasRemaining(name, expiry, want string) error {
	ing, ok := s.ingredients[name]
	if !ok {
		return fmt.Errorf("unknown ingredient %q", name)
	}
	batches, err := s.f.svc.Inventory.ListBatches(context.Background(), ing.ID)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if b.ExpiryDate.UTC().Format("2006-01-02") != expiry {
			continue
		}
		if !b.QuantityRemaining.Equal(decimal.RequireFromString(want)) {
			return fmt.Errorf("expected %s remaining, got %s", want, b.QuantityRemaining)
		}
		return nil
	}
	return fmt.Errorf("no %s batch expiring on %s", name, expiry)
}

func (s *saleFeature) lowStockContains(name string) (bool, error) {
	low, err := s.f.svc.Inventory.ListLowStock(context.Background())
	if err != nil {
		return false, err
	}
	for _, it := range low {
		if it.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *saleFeature) isInTheLowStockList(name string) error {
	found, err := s.lowStockContains(name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s missing from low-stock list", name)
	}
	return nil
}

func (s *saleFeature) isNotInTheLowStockList(name string) error {
	found, err := s.lowStockContains(name)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%s unexpectedly in low-stock list", name)
	}
	return nil
}

func (s *saleFeature) noSaleWasRecorded() error {
	if n := testutil.CountRows(s.t, s.f.db, &entity.Sale{}); n != 0 {
		return fmt.Errorf("expected no sales, found %d", n)
	}
	if n := testutil.CountRows(s.t, s.f.db, &entity.SaleItem{}); n != 0 {
		return fmt.Errorf("expected no sale items, found %d", n)
	}
	return nil
}

func TestSaleFeatures(t *testing.T) {
	sf := &saleFeature{t: t}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
				sf.reset()
				return ctx, nil
			})

			// Given steps
			ctx.Step(`^an ingredient "([^"]*)" measured in "([^"]*)" with reorder level (\S+)$`, sf.anIngredientMeasuredInWithReorderLevel)
			ctx.Step(`^a batch of (\S+) "([^"]*)" expiring on "([^"]*)"$`, sf.aBatchOfExpiringOn)
			ctx.Step(`^a dish "([^"]*)" that needs (\S+) "([^"]*)" per unit$`, sf.aDishThatNeedsPerUnit)
			ctx.Step(`^a dish "([^"]*)" with no recipe$`, sf.aDishWithNoRecipe)

			// When steps
			ctx.Step(`^I sell (\d+) "([^"]*)"$`, sf.iSell)
			ctx.Step(`^I sell the order:$`, sf.iSellTheOrder)

			// Then steps
			ctx.Step(`^the sale succeeds$`, sf.theSaleSucceeds)
			ctx.Step(`^the sale fails with insufficient stock of "([^"]*)" requiring (\S+) with (\S+) available$`, sf.theSaleFailsWithInsufficientStock)
			ctx.Step(`^the sale fails with a missing recipe for "([^"]*)"$`, sf.theSaleFailsWithAMissingRecipeFor)
			ctx.Step(`^the stock of "([^"]*)" is (\S+)$`, sf.theStockOfIs)
			ctx.Step(`^the "([^"]*)" batch expiring on "([^"]*)" has (\S+) remaining$`, sf.theBatchExpiringOnHasRemaining)
			ctx.Step(`^"([^"]*)" is in the low-stock list$`, sf.isInTheLowStockList)
			ctx.Step(`^"([^"]*)" is not in the low-stock list$`, sf.isNotInTheLowStockList)
			ctx.Step(`^no sale was recorded$`, sf.noSaleWasRecorded)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
