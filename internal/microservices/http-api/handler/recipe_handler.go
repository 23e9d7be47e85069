package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	svc service.RecipeService
}

func NewRecipeHandler(svc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/available", h.Available)
	rg.GET("/ranked", h.Ranked)
	rg.GET("/cook-time", h.ByCookTime)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/missing-ingredients", h.MissingIngredients)

	rg.POST("", requireAuth, h.Create)
	rg.PATCH("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

func (h *RecipeHandler) List(c *gin.Context) {
	ctx, cancel := withTimeout(c)
	defer cancel()

	page, pageSize := parsePagination(c)
	resp, err := h.svc.List(ctx, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Available returns recipes that can be cooked from the given ingredients.
// GET /api/recipes/available?ingredient=1&ingredient=2
func (h *RecipeHandler) Available(c *gin.Context) {
	ids, err := ingredientIDs(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.QueryAvailableByIngredients(ctx, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ranked returns recipes sharing any of the given ingredients, closest
// first, with their unlikeness.
// GET /api/recipes/ranked?ingredient=1&ingredient=2
func (h *RecipeHandler) Ranked(c *gin.Context) {
	ids, err := ingredientIDs(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.RankByAvailability(ctx, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MissingIngredients returns the recipe's lines the caller does not have.
// GET /api/recipes/:id/missing-ingredients?ingredient=1
func (h *RecipeHandler) MissingIngredients(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ids, err := ingredientIDs(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.QueryMissingIngredients(ctx, id, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByCookTime: GET /api/recipes/cook-time?cook_time=00:10:00
func (h *RecipeHandler) ByCookTime(c *gin.Context) {
	cookTime := c.Query("cook_time")
	if cookTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cook_time is required"})
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.ListByCookTime(ctx, cookTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.Create(ctx, middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.Update(ctx, middleware.ActorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
