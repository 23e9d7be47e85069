package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	svc service.ScoreService
}

func NewScoreHandler(svc service.ScoreService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

func (h *ScoreHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	// create-or-update for the caller
	rg.POST("", requireAuth, h.Record)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

// List: GET /api/scores?recipe_id=1&user_id=<uuid>
func (h *ScoreHandler) List(c *gin.Context) {
	recipeID, ok := parseOptionalInt64(c, "recipe_id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	page, pageSize := parsePagination(c)
	filter := repository.ScoreFilter{RecipeID: recipeID, UserID: c.Query("user_id")}
	resp, err := h.svc.ListScores(ctx, filter, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScoreHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.GetScore(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Record creates the caller's score on a recipe or replaces it.
// 201 on first score, 200 on resubmission.
func (h *ScoreHandler) Record(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.RecordScore(ctx, middleware.UserIDFrom(c), req.RecipeID, *req.Score)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *ScoreHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.UpdateScore(ctx, middleware.ActorFrom(c), id, *req.Score)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete withdraws a score and returns the recipe's new aggregate.
func (h *ScoreHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.DeleteScore(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
