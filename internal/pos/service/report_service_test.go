package service

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportLowStock(t *testing.T) {
	f := newFixture(t)
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")
	testutil.SeedBatch(t, f.db, flour.ID, f.supplier.ID, "3", testutil.Day(2026, time.April, 1))

	x, filename, err := f.svc.Report.ExportLowStock(context.Background())
	require.NoError(t, err)
	defer x.Close()
	assert.Equal(t, "low_stock_20260315.xlsx", filename)

	rows, err := x.GetRows("LowStock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"食材", "单位", "当前库存", "补货线"}, rows[0])
	assert.Equal(t, "Flour", rows[1][0])
	assert.Equal(t, "3", rows[1][2])
}

func TestExportBatches(t *testing.T) {
	f := newFixture(t)
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")
	testutil.SeedBatch(t, f.db, flour.ID, f.supplier.ID, "3", testutil.Day(2026, time.April, 1))
	testutil.SeedBatch(t, f.db, flour.ID, f.supplier.ID, "4", testutil.Day(2026, time.May, 1))

	x, filename, err := f.svc.Report.ExportBatches(context.Background(), flour.ID)
	require.NoError(t, err)
	defer x.Close()
	assert.Equal(t, "batches_Flour.xlsx", filename)

	rows, err := x.GetRows("Batches")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 batches + total
	assert.Equal(t, "Mill & Co", rows[1][1])
	assert.Equal(t, "2026-04-01", rows[1][6])
	assert.Equal(t, "合计", rows[3][0])
	assert.Equal(t, "7", rows[3][3])
}

func TestImportDeliveries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")

	x := excelize.NewFile()
	defer x.Close()
	sheet := x.GetSheetName(0)
	x.SetSheetRow(sheet, "A1", &[]interface{}{"食材", "供应商", "数量", "单价", "到期日期"})
	x.SetSheetRow(sheet, "A2", &[]interface{}{"Flour", "Mill & Co", "12", "0.5", "2026-07-01"})
	x.SetSheetRow(sheet, "A3", &[]interface{}{"Sugar", "Mill & Co", "1", "1", "2026-07-01"})
	x.SetSheetRow(sheet, "A4", &[]interface{}{"Flour", "Mill & Co", "0", "1", "2026-07-01"})

	result, err := f.svc.Report.ImportDeliveries(ctx, x, "chef-01")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, result.Errors, 2)

	stock, err := f.svc.Inventory.CurrentStock(ctx, flour.ID)
	require.NoError(t, err)
	assertDec(t, "12", stock)
}

func TestImportDeliveries_DateFormattedCells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := testutil.SeedIngredient(t, f.db, "Flour", "kg", "5")

	x := excelize.NewFile()
	defer x.Close()
	sheet := x.GetSheetName(0)
	x.SetSheetRow(sheet, "A1", &[]interface{}{"食材", "供应商", "数量", "单价", "到期日期"})
	x.SetSheetRow(sheet, "A2", &[]interface{}{"Flour", "Mill & Co", 4, 0.5})
	require.NoError(t, x.SetCellValue(sheet, "E2", time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	x.SetSheetRow(sheet, "A3", &[]interface{}{"Flour", "Mill & Co", 2, 0.5, "2026/8/15"})
	x.SetSheetRow(sheet, "A4", &[]interface{}{"Flour", "Mill & Co", 1, 0.5, "next week"})

	// 日期单元格按显示格式读出时不是 YYYY-MM-DD
	shown, err := x.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.NotEqual(t, "2026-07-01", shown)

	result, err := f.svc.Report.ImportDeliveries(ctx, x, "chef-01")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 4")

	batches, err := f.svc.Inventory.ListBatches(ctx, flour.ID)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "2026-07-01", batches[0].ExpiryDate.UTC().Format("2006-01-02"))
	assert.Equal(t, "2026-08-15", batches[1].ExpiryDate.UTC().Format("2006-01-02"))
}
