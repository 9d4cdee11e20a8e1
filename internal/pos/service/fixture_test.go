package service

import (
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"github.com/bitfantasy/nimo-pos/internal/pos/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	repos    *repository.Repositories
	svc      *Services
	pub      *testutil.RecordingPublisher
	supplier *entity.Supplier
	waiter   *entity.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	pub := &testutil.RecordingPublisher{}
	svc := NewServices(repos, Deps{
		Events: pub,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return fixedNow },
	})
	return &fixture{
		db:       db,
		repos:    repos,
		svc:      svc,
		pub:      pub,
		supplier: testutil.SeedSupplier(t, db, "Mill & Co"),
		waiter:   testutil.SeedEmployee(t, db, entity.RoleWaiter, "Wendy", "wendy@example.com"),
	}
}

// breadSetup: Flour 10 kg in one batch, reorder level 5; Bread uses 3 kg per unit.
func (f *fixture) breadSetup(t *testing.T) (*entity.IngredientType, *entity.Batch, *entity.Dish) {
	t.Helper()
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")
	batch := testutil.SeedBatch(t, f.db, flour.ID, f.supplier.ID, "10", testutil.Day(2026, time.April, 1))
	bread := testutil.SeedDish(t, f.db, "Bread", "4.50", map[uint]string{flour.ID: "3"})
	return flour, batch, bread
}

func (f *fixture) order(lines ...OrderLine) *ProcessSaleRequest {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return &ProcessSaleRequest{EmployeeID: f.waiter.ID, Items: lines, TotalAmount: total}
}

func lineOf(dish *entity.Dish, qty int) OrderLine {
	return OrderLine{DishID: dish.ID, Quantity: qty, UnitPrice: dish.Price}
}

func assertDec(t *testing.T, want string, got decimal.Decimal) bool {
	t.Helper()
	return assert.Truef(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got.String())
}
