package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/pos/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService 库存报表导出/到货导入
type ReportService struct {
	repos     *repository.Repositories
	inventory *InventoryService
}

func NewReportService(repos *repository.Repositories, inventory *InventoryService) *ReportService {
	return &ReportService{repos: repos, inventory: inventory}
}

var (
	lowStockHeaders = []string{"食材", "单位", "当前库存", "补货线"}
	batchHeaders    = []string{"批次ID", "供应商", "到货量", "剩余量", "单价", "到货日期", "到期日期"}
	deliveryHeaders = []string{"食材", "供应商", "数量", "单价", "到期日期"}
)

// ImportResult 导入结果
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

func newSheet(sheet string, headers []string, widths []float64) *excelize.File {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return f
}

// ExportLowStock 导出低库存清单
func (s *ReportService) ExportLowStock(ctx context.Context) (*excelize.File, string, error) {
	items, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return nil, "", err
	}

	sheet := "LowStock"
	f := newSheet(sheet, lowStockHeaders, []float64{20, 8, 12, 12})
	for i, it := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), it.TotalStock.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), it.ReorderLevel.InexactFloat64())
	}

	filename := fmt.Sprintf("low_stock_%s.xlsx", today(s.inventory.deps.Now()).Format("20060102"))
	return f, filename, nil
}

// ExportBatches 导出某食材的批次
func (s *ReportService) ExportBatches(ctx context.Context, ingredientID uint) (*excelize.File, string, error) {
	ing, err := s.inventory.Stock(ctx, ingredientID)
	if err != nil {
		return nil, "", err
	}
	batches, err := s.inventory.ListBatches(ctx, ingredientID)
	if err != nil {
		return nil, "", err
	}

	sheet := "Batches"
	f := newSheet(sheet, batchHeaders, []float64{8, 20, 10, 10, 10, 12, 12})
	for i, b := range batches {
		row := i + 2
		supplier := ""
		if b.Supplier != nil {
			supplier = b.Supplier.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), supplier)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.QuantityReceived.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.QuantityRemaining.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), b.CostPerUnit.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), b.ReceivedDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), b.ExpiryDate.Format("2006-01-02"))
	}

	// 汇总行
	summaryRow := len(batches) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), ing.TotalStock.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("batches_%s.xlsx", ing.Name)
	return f, filename, nil
}

// ImportDeliveries 从Excel批量登记到货，表头为 食材/供应商/数量/单价/到期日期。
// 每行独立入库，出错的行记入 Errors 后继续。
func (s *ReportService) ImportDeliveries(ctx context.Context, f *excelize.File, createdBy string) (*ImportResult, error) {
	sheet := f.GetSheetName(0)
	// 取原始值：日期单元格读出的是序列号而不是显示格式
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, invalid("file", "cannot read sheet: %v", err)
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	if len(rows) < 2 {
		return nil, invalid("file", "no data rows")
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < len(deliveryHeaders) {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: expected %d columns", line, len(deliveryHeaders)))
			continue
		}
		req, err := s.deliveryFromRow(ctx, row, date1904)
		if err == nil {
			_, err = s.inventory.RecordDelivery(ctx, req, createdBy)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

func (s *ReportService) deliveryFromRow(ctx context.Context, row []string, date1904 bool) (*RecordDeliveryRequest, error) {
	ingName := strings.TrimSpace(row[0])
	supName := strings.TrimSpace(row[1])
	ing, err := s.repos.Ingredient.FindByName(ctx, ingName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("ingredient", "unknown ingredient %q", ingName)
		}
		return nil, classify("find ingredient", err)
	}
	sup, err := s.repos.Supplier.FindByName(ctx, supName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("supplier", "unknown supplier %q", supName)
		}
		return nil, classify("find supplier", err)
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, invalid("quantity", "not a number: %q", row[2])
	}
	cost, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, invalid("cost_per_unit", "not a number: %q", row[3])
	}
	expiry, err := expiryFromCell(row[4], date1904)
	if err != nil {
		return nil, err
	}
	return &RecordDeliveryRequest{
		IngredientID: ing.ID,
		SupplierID:   sup.ID,
		Quantity:     qty,
		CostPerUnit:  cost,
		ExpiryDate:   expiry,
	}, nil
}

var expiryLayouts = []string{"2006-01-02", "2006/01/02", "2006-1-2", "2006/1/2"}

// expiryFromCell 到期日期可以是文本日期，也可以是Excel日期序列号
func expiryFromCell(cell string, date1904 bool) (string, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", invalid("expiry_date", "unrecognized date %q", cell)
}
