package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/nimo-pos/internal/middleware"
	"github.com/bitfantasy/nimo-pos/internal/pos/entity"
	"github.com/bitfantasy/nimo-pos/internal/pos/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Sale      *SaleHandler
	Inventory *InventoryHandler
	Menu      *MenuHandler
	Supplier  *SupplierHandler
	Employee  *EmployeeHandler
	Dashboard *DashboardHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Sale:      NewSaleHandler(svc.Sale),
		Inventory: NewInventoryHandler(svc.Inventory, svc.Report),
		Menu:      NewMenuHandler(svc.Menu),
		Supplier:  NewSupplierHandler(svc.Supplier),
		Employee:  NewEmployeeHandler(svc.Employee),
		Dashboard: NewDashboardHandler(svc.Dashboard),
	}
}

// RegisterRoutes 注册 /pos 下的全部路由
func RegisterRoutes(api *gin.RouterGroup, h *Handlers) {
	pos := api.Group("/pos")

	manage := middleware.RequireRole(entity.RoleManager)
	stock := middleware.RequireRole(entity.RoleManager, entity.RoleChef)
	sell := middleware.RequireRole(entity.RoleManager, entity.RoleWaiter)

	// 销售
	pos.POST("/sales", sell, h.Sale.Create)
	pos.GET("/sales/:id", h.Sale.Get)

	// 库存
	pos.GET("/ingredients", h.Inventory.ListIngredients)
	pos.POST("/ingredients", manage, h.Inventory.CreateIngredient)
	pos.GET("/ingredients/:id/stock", h.Inventory.GetStock)
	pos.GET("/ingredients/:id/batches", h.Inventory.ListBatches)
	pos.GET("/ingredients/:id/batches/export", h.Inventory.ExportBatches)
	pos.POST("/deliveries", stock, h.Inventory.RecordDelivery)
	pos.POST("/deliveries/import", stock, h.Inventory.ImportDeliveries)
	pos.GET("/inventory/low-stock", h.Inventory.ListLowStock)
	pos.GET("/inventory/low-stock/export", h.Inventory.ExportLowStock)
	pos.GET("/inventory/movements", h.Inventory.ListMovements)

	// 供应商
	pos.GET("/suppliers", h.Supplier.List)
	pos.POST("/suppliers", manage, h.Supplier.Create)
	pos.GET("/suppliers/:id", h.Supplier.Get)
	pos.PUT("/suppliers/:id", manage, h.Supplier.Update)
	pos.DELETE("/suppliers/:id", manage, h.Supplier.Delete)

	// 员工
	pos.GET("/employees", h.Employee.List)
	pos.POST("/employees", manage, h.Employee.Create)
	pos.GET("/employees/:id", h.Employee.Get)
	pos.PUT("/employees/:id", manage, h.Employee.Update)
	pos.DELETE("/employees/:id", manage, h.Employee.Delete)

	// 菜品与配方
	pos.GET("/dishes", h.Menu.ListDishes)
	pos.POST("/dishes", manage, h.Menu.CreateDish)
	pos.GET("/dishes/:id", h.Menu.GetDish)
	pos.PUT("/dishes/:id", manage, h.Menu.UpdateDish)
	pos.DELETE("/dishes/:id", manage, h.Menu.DeleteDish)
	pos.GET("/dishes/:id/recipe", h.Menu.GetRecipe)
	pos.POST("/dishes/:id/recipe", manage, h.Menu.AddRecipeEntry)
	pos.PUT("/recipe-entries/:id", manage, h.Menu.UpdateRecipeEntry)
	pos.DELETE("/recipe-entries/:id", manage, h.Menu.RemoveRecipeEntry)

	// 看板
	pos.GET("/dashboard/kpis", h.Dashboard.KPIs)
	pos.GET("/dashboard/sales-by-day", h.Dashboard.SalesByDay)
	pos.GET("/dashboard/top-dishes", h.Dashboard.TopDishes)
	pos.GET("/dashboard/low-stock", h.Dashboard.LowStock)
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，HTTP状态码取 code 的前三位
func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

// ErrorWithData 带错误详情的错误响应
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError 把服务层错误映射为响应
func HandleError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		ne *service.NotFoundError
		me *service.MissingRecipeError
		ie *service.InsufficientStockError
		ce *service.ConnectivityError
	)
	switch {
	case errors.As(err, &ve):
		Error(c, 40001, ve.Error())
	case errors.As(err, &ne):
		ErrorWithData(c, 40401, ne.Error(), gin.H{"resource": ne.Resource, "id": ne.ID})
	case errors.As(err, &me):
		ErrorWithData(c, 42201, me.Error(), gin.H{"dish_id": me.DishID, "dish_name": me.DishName})
	case errors.As(err, &ie):
		ErrorWithData(c, 40901, ie.Error(), gin.H{
			"ingredient_id": ie.IngredientID,
			"ingredient":    ie.Ingredient,
			"unit":          ie.Unit,
			"required":      ie.Required,
			"available":     ie.Available,
		})
	case errors.As(err, &ce):
		Error(c, 50301, "storage unavailable, please retry")
	default:
		Error(c, 50001, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// paramID 解析路径中的数字ID，失败时已写入400响应
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, name string, def int) int {
	if s := c.Query(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}
