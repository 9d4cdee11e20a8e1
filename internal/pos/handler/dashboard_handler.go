package handler

import (
	"github.com/bitfantasy/nimo-pos/internal/pos/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) KPIs(c *gin.Context) {
	k, err := h.svc.KPIs(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, k)
}

// SalesByDay GET /pos/dashboard/sales-by-day?days=7
func (h *DashboardHandler) SalesByDay(c *gin.Context) {
	rows, err := h.svc.SalesByDay(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": rows})
}

// TopDishes GET /pos/dashboard/top-dishes?limit=5
func (h *DashboardHandler) TopDishes(c *gin.Context) {
	rows, err := h.svc.TopDishes(c.Request.Context(), queryInt(c, "limit", 5))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *DashboardHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
