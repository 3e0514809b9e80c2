package request

import (
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CreateProductRequest represents a product creation request. Stock
// figures are decimal amounts of the product's smallest tracked unit.
type CreateProductRequest struct {
	CategoryID        *uuid.UUID            `json:"category_id"`
	UnitID            *uuid.UUID            `json:"unit_id"`
	Name              string                `json:"name" binding:"required,min=2,max=255"`
	Code              string                `json:"code" binding:"omitempty,max=100"`
	CurrentStock      float64               `json:"current_stock" binding:"min=0"`
	StockAlert        float64               `json:"stock_alert" binding:"min=0"`
	ContainerCapacity float64               `json:"container_capacity" binding:"min=0"`
	BuyingPrice       float64               `json:"buying_price" binding:"min=0"`
	SellingPrice      float64               `json:"selling_price" binding:"min=0"`
	IsService         bool                  `json:"is_service"`
	Discounts         *entity.DiscountFlags `json:"discounts"`
	Notes             *string               `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID        *uuid.UUID            `json:"category_id"`
	UnitID            *uuid.UUID            `json:"unit_id"`
	Name              *string               `json:"name" binding:"omitempty,min=2,max=255"`
	Code              *string               `json:"code" binding:"omitempty,min=1,max=100"`
	CurrentStock      *float64              `json:"current_stock"`
	StockAlert        *float64              `json:"stock_alert" binding:"omitempty,min=0"`
	ContainerCapacity *float64              `json:"container_capacity" binding:"omitempty,min=0"`
	BuyingPrice       *float64              `json:"buying_price" binding:"omitempty,min=0"`
	SellingPrice      *float64              `json:"selling_price" binding:"omitempty,min=0"`
	IsService         *bool                 `json:"is_service"`
	Discounts         *entity.DiscountFlags `json:"discounts"`
	Notes             *string               `json:"notes"`
}

// PreviewSaleRequest prices a quantity entry against a product and
// reports the stock reconciliation state before the line is committed.
type PreviewSaleRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	SaleMode  string  `json:"sale_mode" binding:"omitempty,oneof=quantity volume"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search       string `form:"search"`
	CategoryID   string `form:"category_id"`
	UnitID       string `form:"unit_id"`
	LowStock     bool   `form:"low_stock"`
	ServicesOnly bool   `form:"services_only"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
	Limit        int    `form:"limit"` // For cursor-based pagination
}
