package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// NamedHandler serves a name-only reference entity (measures, recipe
// categories).
type NamedHandler struct {
	svc service.NamedService
}

func NewNamedHandler(svc service.NamedService) *NamedHandler {
	return &NamedHandler{svc: svc}
}

// RegisterRoutes mounts reads publicly and writes behind requireAuth.
func (h *NamedHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:id", requireAuth, h.Rename)
	rg.PATCH("/:id", requireAuth, h.Rename)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

func (h *NamedHandler) List(c *gin.Context) {
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

func (h *NamedHandler) Get(c *gin.Context) {
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

func (h *NamedHandler) Create(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.Create(ctx, middleware.ActorFrom(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *NamedHandler) Rename(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	resp, err := h.svc.Rename(ctx, middleware.ActorFrom(c), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NamedHandler) Delete(c *gin.Context) {
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
