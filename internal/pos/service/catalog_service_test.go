package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplier_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sup, err := f.svc.Supplier.Create(ctx, &SupplierRequest{Name: "Dairy Farm", Email: "milk@example.com"})
	require.NoError(t, err)

	_, err = f.svc.Supplier.Create(ctx, &SupplierRequest{Name: "Dairy Farm"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "duplicate: got %v", err)

	updated, err := f.svc.Supplier.Update(ctx, sup.ID, &SupplierRequest{Name: "Dairy Farm Ltd", Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)

	list, err := f.svc.Supplier.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2) // fixture supplier + this one

	require.NoError(t, f.svc.Supplier.Delete(ctx, sup.ID))
	_, err = f.svc.Supplier.Get(ctx, sup.ID)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSupplier_DeleteRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")
	testutil.SeedBatch(t, f.db, flour.ID, f.supplier.ID, "1", testutil.Day(2026, time.April, 1))

	err := f.svc.Supplier.Delete(context.Background(), f.supplier.ID)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &entity.Supplier{}))
}

func TestEmployee_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Employee.Create(ctx, &EmployeeRequest{
		Role: entity.RoleChef, FirstName: "Carla", LastName: "Cook", Email: "carla@example.com",
	})
	require.NoError(t, err)

	got, err := f.svc.Employee.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carla", got.FirstName)

	var ve *ValidationError
	_, err = f.svc.Employee.Create(ctx, &EmployeeRequest{Role: "pilot", FirstName: "X", Email: "x@example.com"})
	assert.True(t, errors.As(err, &ve), "bad role: got %v", err)

	_, err = f.svc.Employee.Create(ctx, &EmployeeRequest{Role: entity.RoleWaiter, FirstName: "Y", Email: "carla@example.com"})
	assert.True(t, errors.As(err, &ve), "duplicate email: got %v", err)
}

func TestEmployee_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	carla, err := f.svc.Employee.Create(ctx, &EmployeeRequest{
		Role: entity.RoleChef, FirstName: "Carla", LastName: "Cook", Email: "carla@example.com",
	})
	require.NoError(t, err)

	updated, err := f.svc.Employee.Update(ctx, carla.ID, &EmployeeRequest{
		Role: entity.RoleManager, FirstName: "Carla", LastName: "Boss", Email: "carla@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, updated.Role)

	got, err := f.svc.Employee.Get(ctx, carla.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boss", got.LastName)

	var ve *ValidationError
	_, err = f.svc.Employee.Update(ctx, carla.ID, &EmployeeRequest{
		Role: entity.RoleChef, FirstName: "Carla", Email: f.waiter.Email,
	})
	assert.True(t, errors.As(err, &ve), "email taken: got %v", err)

	_, err = f.svc.Employee.Update(ctx, carla.ID, &EmployeeRequest{Role: "pilot", FirstName: "Carla", Email: "carla@example.com"})
	assert.True(t, errors.As(err, &ve), "bad role: got %v", err)

	var nf *NotFoundError
	_, err = f.svc.Employee.Update(ctx, 999, &EmployeeRequest{Role: entity.RoleChef, FirstName: "X", Email: "x@example.com"})
	assert.True(t, errors.As(err, &nf), "unknown employee: got %v", err)
}

func TestEmployee_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, bread := f.breadSetup(t)

	_, err := f.svc.Sale.ProcessSale(ctx, f.order(lineOf(bread, 1)), "tester")
	require.NoError(t, err)

	var ve *ValidationError
	err = f.svc.Employee.Delete(ctx, f.waiter.ID)
	assert.True(t, errors.As(err, &ve), "employee with sales: got %v", err)
	_, err = f.svc.Employee.Get(ctx, f.waiter.ID)
	assert.NoError(t, err)

	idle := testutil.SeedEmployee(t, f.db, entity.RoleChef, "Ivo", "ivo@example.com")
	require.NoError(t, f.svc.Employee.Delete(ctx, idle.ID))

	var nf *NotFoundError
	_, err = f.svc.Employee.Get(ctx, idle.ID)
	assert.True(t, errors.As(err, &nf), "deleted employee: got %v", err)
	err = f.svc.Employee.Delete(ctx, idle.ID)
	assert.True(t, errors.As(err, &nf), "delete twice: got %v", err)
}

func TestUpdate_NameLookupFailureIsReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := testutil.SeedDish(t, f.db, "Soup", "6", nil)

	// 名称列改名后按名称查重失败，按ID读取仍然正常
	require.NoError(t, f.db.Exec("ALTER TABLE supplier RENAME COLUMN name TO supplier_name").Error)
	require.NoError(t, f.db.Exec("ALTER TABLE dish RENAME COLUMN dname TO dish_name").Error)

	var se *StorageError
	_, err := f.svc.Supplier.Update(ctx, f.supplier.ID, &SupplierRequest{Name: "Mill & Sons"})
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "check supplier name", se.Op)

	_, err = f.svc.Menu.UpdateDish(ctx, soup.ID, &DishRequest{Name: "Tomato Soup", Price: testutil.Dec("7")})
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "check dish name", se.Op)
}
