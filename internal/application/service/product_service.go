package service

import (
	"context"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/internal/domain/stock"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/clinova/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID            uuid.UUID
	CategoryID        *uuid.UUID
	UnitID            *uuid.UUID
	Name              string
	Code              string
	CurrentStock      float64
	StockAlert        float64
	ContainerCapacity float64
	BuyingPrice       float64
	SellingPrice      float64
	IsService         bool
	Discounts         *entity.DiscountFlags
	Notes             *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	// Check if code already exists
	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	slug := utils.Slugify(input.Name)

	product := &entity.Product{
		ClinicID:          clinicID,
		UserID:            input.UserID,
		CategoryID:        input.CategoryID,
		UnitID:            input.UnitID,
		Name:              input.Name,
		Slug:              slug,
		Code:              code,
		CurrentStock:      input.CurrentStock,
		StockAlert:        input.StockAlert,
		ContainerCapacity: input.ContainerCapacity,
		IsService:         input.IsService,
		Notes:             input.Notes,
	}
	if input.Discounts != nil {
		product.Discounts = *input.Discounts
	}
	product.SetBuyingPriceFromDecimal(input.BuyingPrice)
	product.SetSellingPriceFromDecimal(input.SellingPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, userID uuid.UUID, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	products, err := s.productRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit,
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	UserID            uuid.UUID
	ProductSlug       string
	SkipUserCheck     bool // If true (super-admin), skip ownership check
	CategoryID        *uuid.UUID
	UnitID            *uuid.UUID
	Name              *string
	Code              *string
	CurrentStock      *float64
	StockAlert        *float64
	ContainerCapacity *float64
	BuyingPrice       *float64
	SellingPrice      *float64
	IsService         *bool
	Discounts         *entity.DiscountFlags
	Notes             *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if !input.SkipUserCheck && product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	// Check if new code is unique
	if input.Code != nil && *input.Code != product.Code {
		existingProduct, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.UnitID != nil {
		product.UnitID = input.UnitID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.CurrentStock != nil {
		product.CurrentStock = *input.CurrentStock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.ContainerCapacity != nil {
		product.ContainerCapacity = *input.ContainerCapacity
	}
	if input.BuyingPrice != nil {
		product.SetBuyingPriceFromDecimal(*input.BuyingPrice)
	}
	if input.SellingPrice != nil {
		product.SetSellingPriceFromDecimal(*input.SellingPrice)
	}
	if input.IsService != nil {
		product.IsService = *input.IsService
	}
	if input.Discounts != nil {
		product.Discounts = *input.Discounts
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
// If skipOwnerCheck is true (e.g., for super-admins), ownership check is bypassed
func (s *ProductService) DeleteProduct(ctx context.Context, userID uuid.UUID, slug string, skipOwnerCheck bool) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if !skipOwnerCheck && product.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns products at or below their alert level,
// including negative-stock rows awaiting physical reconciliation
func (s *ProductService) GetLowStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, userID)
}

// SalePreview is the priced result of a quantity entry before it becomes
// a transaction line
type SalePreview struct {
	Product           *entity.Product `json:"product"`
	SaleMode          enum.SaleMode   `json:"sale_mode"`
	Quantity          float64         `json:"quantity"`
	TotalPrice        float64         `json:"total_price"`
	ConvertedQuantity float64         `json:"converted_quantity"`
	UnitTip           string          `json:"unit_tip,omitempty"`
	State             stock.State     `json:"stock_state"`
	Shortage          *stock.Shortage `json:"shortage,omitempty"`
}

// PreviewSale prices a quantity entry against a product and reconciles it
// with available stock. An over-limit result is not an error: the caller
// shows the shortage prompt and may re-submit with the override confirmed.
func (s *ProductService) PreviewSale(ctx context.Context, productID uuid.UUID, quantity float64, mode enum.SaleMode) (*SalePreview, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	sale := pricing.ComputeSale(product.SellingPrice, product.Capacity(), quantity, mode)

	preview := &SalePreview{
		Product:           product,
		SaleMode:          mode,
		Quantity:          quantity,
		TotalPrice:        pricing.Decimal(sale.TotalPriceCents),
		ConvertedQuantity: sale.ConvertedQuantity,
	}

	if product.Unit != nil && product.Unit.BaseLabel != "" {
		preview.UnitTip = pricing.UnitTip(sale.ConvertedQuantity, product.Unit.BaseLabel)
	}

	if product.IsService {
		preview.State = stock.StateWithinLimit
		return preview, nil
	}

	// Stock is tracked in base units, so reconcile the converted amount
	rec := stock.New(product.CurrentStock)
	if err := rec.Enter(sale.ConvertedQuantity); err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: err.Error()},
		})
	}
	preview.State = rec.State()
	if rec.State() == stock.StateOverLimit {
		shortage := rec.Shortage()
		preview.Shortage = &shortage
	}

	return preview, nil
}

// BuildProductItem composes a fully priced transaction line for a product,
// applying the member discount when the product is eligible. Used by the
// direct-create API path; register sessions build their lines internally.
func (s *ProductService) BuildProductItem(ctx context.Context, productID uuid.UUID, quantity float64, mode enum.SaleMode, discountPercentage float64) (*entity.TransactionItem, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}

	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sale := pricing.ComputeSale(product.SellingPrice, product.Capacity(), quantity, mode)

	item := entity.TransactionItem{
		ID:                uuid.New(),
		ItemType:          enum.ItemTypeProduct,
		Name:              product.Name,
		Quantity:          quantity,
		SaleMode:          mode,
		UnitPrice:         product.SellingPrice,
		TotalPrice:        sale.TotalPriceCents,
		UnitID:            product.UnitID,
		ConvertedQuantity: sale.ConvertedQuantity,
		IsService:         product.IsService,
		ProductID:         &product.ID,
	}
	if product.IsService {
		item.ItemType = enum.ItemTypeConsultation
	}
	if product.Unit != nil {
		item.BaseUnitLabel = product.Unit.BaseLabel
	}

	pricing.ApplyDiscount(&item, discountPercentage, &product.Discounts)
	return &item, nil
}
