package handler

import (
	"github.com/bitfantasy/nimo-pos/internal/pos/service"
	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	svc *service.MenuService
}

func NewMenuHandler(svc *service.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

// ListDishes GET /pos/dishes?category=
func (h *MenuHandler) ListDishes(c *gin.Context) {
	items, err := h.svc.ListDishes(c.Request.Context(), c.Query("category"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

func (h *MenuHandler) GetDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dish, err := h.svc.GetDish(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, dish)
}

func (h *MenuHandler) CreateDish(c *gin.Context) {
	var req service.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	dish, err := h.svc.CreateDish(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, dish)
}

func (h *MenuHandler) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	dish, err := h.svc.UpdateDish(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, dish)
}

func (h *MenuHandler) DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDish(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// GetRecipe GET /pos/dishes/:id/recipe
func (h *MenuHandler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": recipe})
}

// AddRecipeEntry POST /pos/dishes/:id/recipe
func (h *MenuHandler) AddRecipeEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.AddRecipeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	entry, err := h.svc.AddRecipeEntry(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, entry)
}

// UpdateRecipeEntry PUT /pos/recipe-entries/:id
func (h *MenuHandler) UpdateRecipeEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRecipeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	entry, err := h.svc.UpdateRecipeEntry(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, entry)
}

// RemoveRecipeEntry DELETE /pos/recipe-entries/:id
func (h *MenuHandler) RemoveRecipeEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoveRecipeEntry(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
