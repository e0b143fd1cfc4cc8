package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mangabook/internal/http-api/dto"
	"mangabook/internal/http-api/service"
	"mangabook/pkg/listmap"
)

const listOpTimeout = 5 * time.Second

type ListHandler struct {
	svc service.ListService
}

func NewListHandler(svc service.ListService) *ListHandler {
	return &ListHandler{svc: svc}
}

func (h *ListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.POST("", h.Replace)
	rg.POST("/category", h.CreateCategory)
	rg.PUT("/category/:name", h.RenameCategory)
	rg.DELETE("/category/:name", h.DeleteCategory)
	rg.POST("/manga", h.AddManga)
	rg.PUT("/manga/:categoryName/:mangaId", h.UpdateManga)
	rg.DELETE("/manga/:categoryName/:mangaId", h.DeleteManga)
}

// Get returns the category map, lazily creating the defaults when the user
// has no document yet.
func (h *ListHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	m, err := h.svc.GetList(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching list"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// Replace is the full-document upsert: body is the whole category map.
func (h *ListHandler) Replace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var m listmap.Map
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	normalized, err := h.svc.ReplaceList(ctx, userID, &m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating list"})
		return
	}
	c.JSON(http.StatusOK, normalized)
}

func (h *ListHandler) CreateCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	m, err := h.svc.CreateCategory(ctx, userID, req.Name)
	if err != nil {
		h.writeListError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ListHandler) RenameCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	m, err := h.svc.RenameCategory(ctx, userID, c.Param("name"), req.NewName)
	if err != nil {
		h.writeListError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ListHandler) DeleteCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	if err := h.svc.DeleteCategory(ctx, userID, c.Param("name")); err != nil {
		h.writeListError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListHandler) AddManga(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddMangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	entry, err := h.svc.AddEntry(ctx, userID, req.CategoryName, req.Manga.ToEntry())
	if err != nil {
		h.writeListError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *ListHandler) UpdateManga(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	err := h.svc.UpdateEntry(ctx, userID, c.Param("categoryName"), c.Param("mangaId"), req.ToPatch())
	if err != nil {
		h.writeListError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "manga updated"})
}

func (h *ListHandler) DeleteManga(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	err := h.svc.DeleteEntry(ctx, userID, c.Param("categoryName"), c.Param("mangaId"))
	if err != nil {
		h.writeListError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeListError maps category/entry errors to statuses: duplicates are a
// bad request, missing targets a not found, validation a bad request.
func (h *ListHandler) writeListError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, service.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Manga not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID.(string), true
}

func opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), listOpTimeout)
}
