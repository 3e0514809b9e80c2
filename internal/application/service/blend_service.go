package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/clinova/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// BlendService handles fixed blend templates and custom blend quoting
type BlendService struct {
	templateRepo repository.BlendTemplateRepository
	productRepo  repository.ProductRepository
}

// NewBlendService creates a new blend service
func NewBlendService(templateRepo repository.BlendTemplateRepository, productRepo repository.ProductRepository) *BlendService {
	return &BlendService{
		templateRepo: templateRepo,
		productRepo:  productRepo,
	}
}

// CreateTemplateInput represents the create blend template input
type CreateTemplateInput struct {
	UserID        uuid.UUID
	Name          string
	BatchPrice    float64
	ContainerType string
	Ingredients   []entity.TemplateIngredient
	Instructions  *string
}

// CreateTemplate creates a new fixed blend template
func (s *BlendService) CreateTemplate(ctx context.Context, input *CreateTemplateInput) (*entity.BlendTemplate, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	var fieldErrs []apperror.FieldError
	if input.Name == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if len(input.Ingredients) == 0 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "ingredients", Message: "At least one ingredient is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	template := &entity.BlendTemplate{
		ClinicID:      clinicID,
		UserID:        input.UserID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		ContainerType: input.ContainerType,
		Ingredients:   input.Ingredients,
		Instructions:  input.Instructions,
		IsActive:      true,
	}
	template.BatchPrice = pricing.Cents(input.BatchPrice)

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// GetTemplate retrieves a blend template by slug
func (s *BlendService) GetTemplate(ctx context.Context, slug string) (*entity.BlendTemplate, error) {
	template, err := s.templateRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.NewNotFoundError("Blend template")
	}
	return template, nil
}

// ListTemplates lists active blend templates
func (s *BlendService) ListTemplates(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.BlendTemplate], error) {
	templates, total, err := s.templateRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(templates, pag), nil
}

// UpdateTemplateInput represents the update blend template input
type UpdateTemplateInput struct {
	UserID        uuid.UUID
	TemplateSlug  string
	SkipUserCheck bool
	Name          *string
	BatchPrice    *float64
	ContainerType *string
	Ingredients   []entity.TemplateIngredient
	Instructions  *string
	IsActive      *bool
}

// UpdateTemplate updates a blend template
func (s *BlendService) UpdateTemplate(ctx context.Context, input *UpdateTemplateInput) (*entity.BlendTemplate, error) {
	template, err := s.templateRepo.GetBySlug(ctx, input.TemplateSlug)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.NewNotFoundError("Blend template")
	}
	if !input.SkipUserCheck && template.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		template.Name = *input.Name
		template.Slug = utils.Slugify(*input.Name)
	}
	if input.BatchPrice != nil {
		template.BatchPrice = pricing.Cents(*input.BatchPrice)
	}
	if input.ContainerType != nil {
		template.ContainerType = *input.ContainerType
	}
	if input.Ingredients != nil {
		template.Ingredients = input.Ingredients
	}
	if input.Instructions != nil {
		template.Instructions = input.Instructions
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteTemplate deletes a blend template
func (s *BlendService) DeleteTemplate(ctx context.Context, userID uuid.UUID, slug string, skipUserCheck bool) error {
	template, err := s.templateRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if template == nil {
		return apperror.NewNotFoundError("Blend template")
	}
	if !skipUserCheck && template.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.templateRepo.Delete(ctx, template.ID)
}

// QuoteBlendInput represents a custom blend pricing request. Exactly one
// of MarginPercent or ManualPrice drives the price; when ManualPrice is
// set it wins and the margin is back-computed for display.
type QuoteBlendInput struct {
	Name          string
	ContainerType string
	Ingredients   []entity.BlendIngredient
	MarginPercent float64
	ManualPrice   *float64
}

// BlendQuoteResult is the priced blend plus ingredient availability
// advisories. Shortages never block quoting; the override decision
// happens at submit time.
type BlendQuoteResult struct {
	TotalCost     float64              `json:"total_cost"`
	MarginPercent float64              `json:"margin_percent"`
	SellingPrice  float64              `json:"selling_price"`
	FloorPrice    float64              `json:"floor_price"`
	Shortages     []IngredientShortage `json:"shortages,omitempty"`
}

// IngredientShortage flags an ingredient whose requested quantity exceeds
// recorded stock
type IngredientShortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Requested float64   `json:"requested"`
	Available float64   `json:"available"`
}

// BlendValidationResult holds collected ingredient problems. Errors are
// structural (unknown product, non-positive quantity); warnings are stock
// shortages and are advisory only, never a block.
type BlendValidationResult struct {
	Errors   []apperror.FieldError `json:"errors"`
	Warnings []IngredientShortage  `json:"warnings,omitempty"`
}

// ValidateIngredients checks a blend's ingredient lines against the
// current product records. BatchMultiplier scales the checked quantities
// for multi-batch preparation; values below 1 are treated as 1.
func (s *BlendService) ValidateIngredients(ctx context.Context, ingredients []entity.BlendIngredient, batchMultiplier float64) (*BlendValidationResult, error) {
	if batchMultiplier < 1 {
		batchMultiplier = 1
	}

	result := &BlendValidationResult{Errors: []apperror.FieldError{}}
	if len(ingredients) == 0 {
		result.Errors = append(result.Errors, apperror.FieldError{
			Field: "ingredients", Message: "At least one ingredient is required",
		})
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, ing := range ingredients {
		ids = append(ids, ing.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for idx, ing := range ingredients {
		if ing.Quantity <= 0 {
			result.Errors = append(result.Errors, apperror.FieldError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", idx),
				Message: "Ingredient quantity must be greater than zero",
			})
			continue
		}
		product, exists := productMap[ing.ProductID]
		if !exists {
			result.Errors = append(result.Errors, apperror.FieldError{
				Field:   fmt.Sprintf("ingredients[%d].product_id", idx),
				Message: "Ingredient product not found",
			})
			continue
		}
		required := ing.Quantity * batchMultiplier
		if required > product.CurrentStock {
			result.Warnings = append(result.Warnings, IngredientShortage{
				ProductID: ing.ProductID,
				Name:      product.Name,
				Requested: required,
				Available: product.CurrentStock,
			})
		}
	}
	return result, nil
}

// QuoteBlend validates and prices a custom blend. Ingredient costs are
// refreshed from the current product records so a re-opened blend prices
// against up-to-date figures; the stored margin, not the stale absolute
// price, is what carries over.
func (s *BlendService) QuoteBlend(ctx context.Context, input *QuoteBlendInput) (*BlendQuoteResult, error) {
	if errs := pricing.ValidateBlend(input.Name, input.ContainerType, input.Ingredients); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	ids := make([]uuid.UUID, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		ids = append(ids, ing.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var shortages []IngredientShortage
	for i := range input.Ingredients {
		ing := &input.Ingredients[i]
		product, exists := productMap[ing.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError("Ingredient product")
		}
		ing.Name = product.Name
		ing.CostPerUnit = product.SellingPrice
		ing.AvailableStock = product.CurrentStock
		if ing.Quantity > product.CurrentStock {
			shortages = append(shortages, IngredientShortage{
				ProductID: ing.ProductID,
				Name:      product.Name,
				Requested: ing.Quantity,
				Available: product.CurrentStock,
			})
		}
	}

	totalCost := pricing.BlendCost(input.Ingredients)

	var quote pricing.BlendQuote
	if input.ManualPrice != nil {
		quote = pricing.QuoteManual(totalCost, pricing.Cents(*input.ManualPrice))
	} else {
		quote = pricing.QuoteMargin(totalCost, input.MarginPercent)
	}

	return &BlendQuoteResult{
		TotalCost:     pricing.Decimal(quote.TotalCostCents),
		MarginPercent: quote.MarginPercent,
		SellingPrice:  pricing.Decimal(quote.SellingPriceCents),
		FloorPrice:    pricing.Decimal(quote.FloorPriceCents),
		Shortages:     shortages,
	}, nil
}

// BuildBlendItem turns a validated quote into a transaction line payload
func (s *BlendService) BuildBlendItem(ctx context.Context, input *QuoteBlendInput, mixedBy string) (*entity.TransactionItem, error) {
	quote, err := s.QuoteBlend(ctx, input)
	if err != nil {
		return nil, err
	}

	priceCents := pricing.Cents(quote.SellingPrice)
	item := &entity.TransactionItem{
		ItemType:   enum.ItemTypeCustomBlend,
		Name:       input.Name,
		Quantity:   1,
		SaleMode:   enum.SaleModeQuantity,
		UnitPrice:  priceCents,
		TotalPrice: priceCents,
		CustomBlend: &entity.CustomBlendData{
			Name:          input.Name,
			Ingredients:   input.Ingredients,
			TotalCost:     pricing.Cents(quote.TotalCost),
			MarginPercent: quote.MarginPercent,
			ContainerType: input.ContainerType,
			MixedBy:       mixedBy,
			MixedAt:       time.Now(),
		},
	}
	return item, nil
}

// BuildTemplateItem turns a fixed blend template into a transaction line
// sold at the template's batch price.
func (s *BlendService) BuildTemplateItem(ctx context.Context, templateID uuid.UUID, quantity float64) (*entity.TransactionItem, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || !template.IsActive {
		return nil, apperror.NewNotFoundError("Blend template")
	}

	item := &entity.TransactionItem{
		ItemType:        enum.ItemTypeFixedBlend,
		Name:            template.Name,
		Quantity:        quantity,
		SaleMode:        enum.SaleModeQuantity,
		UnitPrice:       template.BatchPrice,
		TotalPrice:      pricing.Cents(pricing.Decimal(template.BatchPrice) * quantity),
		BlendTemplateID: &template.ID,
	}
	return item, nil
}
