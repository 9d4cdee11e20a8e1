package handler

import (
	"github.com/bitfantasy/nimo-pos/internal/pos/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type InventoryHandler struct {
	svc    *service.InventoryService
	report *service.ReportService
}

func NewInventoryHandler(svc *service.InventoryService, report *service.ReportService) *InventoryHandler {
	return &InventoryHandler{svc: svc, report: report}
}

// ListIngredients GET /pos/ingredients
func (h *InventoryHandler) ListIngredients(c *gin.Context) {
	items, err := h.svc.ListIngredients(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// CreateIngredient POST /pos/ingredients
func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var req service.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	ing, err := h.svc.CreateIngredientType(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, ing)
}

// GetStock GET /pos/ingredients/:id/stock
func (h *InventoryHandler) GetStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	stock, err := h.svc.Stock(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, stock)
}

// ListBatches GET /pos/ingredients/:id/batches
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	batches, err := h.svc.ListBatches(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": batches})
}

// RecordDelivery POST /pos/deliveries
func (h *InventoryHandler) RecordDelivery(c *gin.Context) {
	var req service.RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	batch, err := h.svc.RecordDelivery(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, batch)
}

// ImportDeliveries POST /pos/deliveries/import
func (h *InventoryHandler) ImportDeliveries(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传Excel文件")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "无法解析Excel文件: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.report.ImportDeliveries(c.Request.Context(), f, GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// ListLowStock GET /pos/inventory/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	items, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListMovements GET /pos/inventory/movements?ingredient_id=
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, pageSize := GetPagination(c)
	ingredientID := uint(queryInt(c, "ingredient_id", 0))
	result, err := h.svc.ListMovements(c.Request.Context(), ingredientID, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

// ExportLowStock GET /pos/inventory/low-stock/export
func (h *InventoryHandler) ExportLowStock(c *gin.Context) {
	f, filename, err := h.report.ExportLowStock(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeExcel(c, f, filename)
}

// ExportBatches GET /pos/ingredients/:id/batches/export
func (h *InventoryHandler) ExportBatches(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, filename, err := h.report.ExportBatches(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	writeExcel(c, f, filename)
}

func writeExcel(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
