package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/presentation/http/dto/request"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/pkg/pagination"
)

// BundleHandler handles bundle-related HTTP requests
type BundleHandler struct {
	bundleService *service.BundleService
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(bundleService *service.BundleService) *BundleHandler {
	return &BundleHandler{bundleService: bundleService}
}

// List handles listing bundles
func (h *BundleHandler) List(c *gin.Context) {
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

	result, err := h.bundleService.ListBundles(c.Request.Context(), *userID, params, filter.Search, IsSuperAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bundles retrieved successfully", result)
}

// Create handles creating a bundle
func (h *BundleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	products, err := bundleProducts(req.Products)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bundle, err := h.bundleService.CreateBundle(c.Request.Context(), &service.CreateBundleInput{
		UserID:      *userID,
		Name:        req.Name,
		BundlePrice: req.BundlePrice,
		Description: req.Description,
		Products:    products,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bundle created successfully", bundle)
}

// Get handles getting a single bundle
func (h *BundleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bundle ID")
		return
	}

	bundle, err := h.bundleService.GetBundle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bundle retrieved successfully", bundle)
}

// Update handles updating a bundle
func (h *BundleHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bundle ID")
		return
	}

	var req request.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var products []service.BundleProductInput
	if len(req.Products) > 0 {
		products, err = bundleProducts(req.Products)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	bundle, err := h.bundleService.UpdateBundle(c.Request.Context(), &service.UpdateBundleInput{
		UserID:        *userID,
		BundleID:      id,
		SkipUserCheck: IsSuperAdmin(c),
		Name:          req.Name,
		BundlePrice:   req.BundlePrice,
		Description:   req.Description,
		IsActive:      req.IsActive,
		Products:      products,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bundle updated successfully", bundle)
}

// Delete handles deleting a bundle
func (h *BundleHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bundle ID")
		return
	}

	if err := h.bundleService.DeleteBundle(c.Request.Context(), *userID, id, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CheckAvailability reports aggregated constituent shortages for a
// requested bundle quantity
func (h *BundleHandler) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bundle ID")
		return
	}

	quantity := 1.0
	if q, err := strconv.ParseFloat(c.DefaultQuery("quantity", "1"), 64); err == nil && q > 0 {
		quantity = q
	}

	availability, err := h.bundleService.CheckAvailability(c.Request.Context(), id, quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Availability checked successfully", availability)
}

// bundleProducts converts the wire payload into service inputs
func bundleProducts(reqProducts []request.BundleProductRequest) ([]service.BundleProductInput, error) {
	products := make([]service.BundleProductInput, 0, len(reqProducts))
	for _, p := range reqProducts {
		productID, err := uuid.Parse(p.ProductID)
		if err != nil {
			return nil, err
		}
		products = append(products, service.BundleProductInput{
			ProductID: productID,
			Quantity:  p.Quantity,
		})
	}
	return products, nil
}
