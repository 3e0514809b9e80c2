package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/presentation/http/dto/request"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/pkg/pagination"
)

// BlendHandler handles blend template and quoting HTTP requests
type BlendHandler struct {
	blendService   *service.BlendService
	productService *service.ProductService
}

// NewBlendHandler creates a new blend handler
func NewBlendHandler(blendService *service.BlendService, productService *service.ProductService) *BlendHandler {
	return &BlendHandler{blendService: blendService, productService: productService}
}

// ListTemplates handles listing blend templates
func (h *BlendHandler) ListTemplates(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter struct {
		Search  string `form:"search"`
		Page    int    `form:"page"`
		PerPage int    `form:"per_page"`
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	result, err := h.blendService.ListTemplates(c.Request.Context(), *userID, params, filter.Search, IsSuperAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Blend templates retrieved successfully", result)
}

// CreateTemplate handles creating a blend template
func (h *BlendHandler) CreateTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBlendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ingredients, err := h.templateIngredients(c, req.Ingredients)
	if err != nil {
		response.Error(c, err)
		return
	}

	template, err := h.blendService.CreateTemplate(c.Request.Context(), &service.CreateTemplateInput{
		UserID:        *userID,
		Name:          req.Name,
		BatchPrice:    req.BatchPrice,
		ContainerType: req.ContainerType,
		Ingredients:   ingredients,
		Instructions:  req.Instructions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Blend template created successfully", template)
}

// GetTemplate handles getting a single blend template by slug
func (h *BlendHandler) GetTemplate(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Template slug is required")
		return
	}

	template, err := h.blendService.GetTemplate(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Blend template retrieved successfully", template)
}

// UpdateTemplate handles updating a blend template by slug
func (h *BlendHandler) UpdateTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Template slug is required")
		return
	}

	var req request.UpdateBlendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var ingredients []entity.TemplateIngredient
	if len(req.Ingredients) > 0 {
		var err error
		ingredients, err = h.templateIngredients(c, req.Ingredients)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	template, err := h.blendService.UpdateTemplate(c.Request.Context(), &service.UpdateTemplateInput{
		UserID:        *userID,
		TemplateSlug:  slug,
		SkipUserCheck: IsSuperAdmin(c),
		Name:          req.Name,
		BatchPrice:    req.BatchPrice,
		ContainerType: req.ContainerType,
		Ingredients:   ingredients,
		Instructions:  req.Instructions,
		IsActive:      req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Blend template updated successfully", template)
}

// DeleteTemplate handles deleting a blend template by slug
func (h *BlendHandler) DeleteTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Template slug is required")
		return
	}

	if err := h.blendService.DeleteTemplate(c.Request.Context(), *userID, slug, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Quote prices a one-off custom blend without committing anything
func (h *BlendHandler) Quote(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.BlendQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := blendQuoteInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.blendService.QuoteBlend(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Blend quoted successfully", quote)
}

// Validate checks a blend's ingredient list against current stock without
// pricing or committing anything. Structural problems come back as errors,
// stock shortages as warnings.
func (h *BlendHandler) Validate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.BlendValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ingredients := make([]entity.BlendIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		productID, err := uuid.Parse(ing.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID: "+ing.ProductID)
			return
		}
		ingredients = append(ingredients, entity.BlendIngredient{
			ProductID: productID,
			Quantity:  ing.Quantity,
		})
	}

	result, err := h.blendService.ValidateIngredients(c.Request.Context(), ingredients, req.BatchMultiplier)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Blend ingredients validated", result)
}

// templateIngredients resolves names and unit labels for the requested
// ingredient products
func (h *BlendHandler) templateIngredients(c *gin.Context, reqIngredients []request.BlendIngredientRequest) ([]entity.TemplateIngredient, error) {
	ingredients := make([]entity.TemplateIngredient, 0, len(reqIngredients))
	for _, ing := range reqIngredients {
		productID, err := uuid.Parse(ing.ProductID)
		if err != nil {
			return nil, err
		}
		product, err := h.productService.GetProductByID(c.Request.Context(), productID)
		if err != nil {
			return nil, err
		}
		ti := entity.TemplateIngredient{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  ing.Quantity,
		}
		if product.Unit != nil {
			ti.UnitLabel = product.Unit.BaseLabel
		}
		ingredients = append(ingredients, ti)
	}
	return ingredients, nil
}
