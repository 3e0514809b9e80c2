package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/pkg/pagination"
)

// CatalogHandler handles category and unit HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories handles listing categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)
	params := &pagination.PaginationParams{
		Page:    1,
		PerPage: 50,
	}
	search := c.Query("search")

	result, err := h.catalogService.ListCategories(c.Request.Context(), *userID, params, search, isSuperAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Categories retrieved successfully", result)
}

// CreateCategory handles creating a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), *userID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// UpdateCategory handles updating a category by slug
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Category slug is required")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), *userID, slug, req.Name, IsSuperAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory handles deleting a category by slug
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Category slug is required")
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), *userID, slug, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListUnits handles listing units
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)
	params := &pagination.PaginationParams{
		Page:    1,
		PerPage: 50,
	}
	search := c.Query("search")

	result, err := h.catalogService.ListUnits(c.Request.Context(), *userID, params, search, isSuperAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Units retrieved successfully", result)
}

// CreateUnit handles creating a unit
func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		ShortCode string `json:"short_code"`
		BaseLabel string `json:"base_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.catalogService.CreateUnit(c.Request.Context(), &service.CreateUnitInput{
		UserID:    *userID,
		Name:      req.Name,
		ShortCode: req.ShortCode,
		BaseLabel: req.BaseLabel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Unit created successfully", unit)
}

// UpdateUnit handles updating a unit by slug
func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Unit slug is required")
		return
	}

	var req struct {
		Name      *string `json:"name"`
		ShortCode *string `json:"short_code"`
		BaseLabel *string `json:"base_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.catalogService.UpdateUnit(c.Request.Context(), &service.UpdateUnitInput{
		UserID:        *userID,
		UnitSlug:      slug,
		SkipUserCheck: IsSuperAdmin(c),
		Name:          req.Name,
		ShortCode:     req.ShortCode,
		BaseLabel:     req.BaseLabel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unit updated successfully", unit)
}

// DeleteUnit handles deleting a unit by slug
func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Unit slug is required")
		return
	}

	if err := h.catalogService.DeleteUnit(c.Request.Context(), *userID, slug, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
