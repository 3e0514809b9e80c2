package service

import (
	"context"

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

// BundleService handles promotional bundle definitions and their
// availability checks at the register
type BundleService struct {
	bundleRepo  repository.BundleRepository
	productRepo repository.ProductRepository
}

// NewBundleService creates a new bundle service
func NewBundleService(bundleRepo repository.BundleRepository, productRepo repository.ProductRepository) *BundleService {
	return &BundleService{
		bundleRepo:  bundleRepo,
		productRepo: productRepo,
	}
}

// BundleProductInput is one constituent in a bundle definition
type BundleProductInput struct {
	ProductID uuid.UUID
	Quantity  float64
}

// CreateBundleInput represents the create bundle input
type CreateBundleInput struct {
	UserID      uuid.UUID
	Name        string
	BundlePrice float64
	Description *string
	Products    []BundleProductInput
}

// CreateBundle creates a new promotional bundle
func (s *BundleService) CreateBundle(ctx context.Context, input *CreateBundleInput) (*entity.Bundle, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	var fieldErrs []apperror.FieldError
	if input.Name == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if len(input.Products) == 0 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "products", Message: "At least one product is required"})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	bundle := &entity.Bundle{
		ClinicID:    clinicID,
		UserID:      input.UserID,
		Name:        input.Name,
		Slug:        utils.Slugify(input.Name),
		BundlePrice: pricing.Cents(input.BundlePrice),
		Description: input.Description,
		IsActive:    true,
	}
	for _, p := range input.Products {
		bundle.Products = append(bundle.Products, entity.BundleProduct{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		})
	}

	if err := s.bundleRepo.Create(ctx, bundle); err != nil {
		return nil, err
	}
	return s.bundleRepo.GetWithProducts(ctx, bundle.ID)
}

// GetBundle retrieves a bundle with its products
func (s *BundleService) GetBundle(ctx context.Context, id uuid.UUID) (*entity.Bundle, error) {
	bundle, err := s.bundleRepo.GetWithProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, apperror.NewNotFoundError("Bundle")
	}
	return bundle, nil
}

// ListBundles lists active bundles
func (s *BundleService) ListBundles(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Bundle], error) {
	bundles, total, err := s.bundleRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bundles, pag), nil
}

// UpdateBundleInput represents the update bundle input
type UpdateBundleInput struct {
	UserID        uuid.UUID
	BundleID      uuid.UUID
	SkipUserCheck bool
	Name          *string
	BundlePrice   *float64
	Description   *string
	IsActive      *bool
	Products      []BundleProductInput
}

// UpdateBundle updates a bundle and optionally replaces its constituents
func (s *BundleService) UpdateBundle(ctx context.Context, input *UpdateBundleInput) (*entity.Bundle, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, input.BundleID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, apperror.NewNotFoundError("Bundle")
	}
	if !input.SkipUserCheck && bundle.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		bundle.Name = *input.Name
		bundle.Slug = utils.Slugify(*input.Name)
	}
	if input.BundlePrice != nil {
		bundle.BundlePrice = pricing.Cents(*input.BundlePrice)
	}
	if input.Description != nil {
		bundle.Description = input.Description
	}
	if input.IsActive != nil {
		bundle.IsActive = *input.IsActive
	}

	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		return nil, err
	}

	if input.Products != nil {
		products := make([]entity.BundleProduct, 0, len(input.Products))
		for _, p := range input.Products {
			products = append(products, entity.BundleProduct{
				ProductID: p.ProductID,
				Quantity:  p.Quantity,
			})
		}
		if err := s.bundleRepo.ReplaceProducts(ctx, bundle.ID, products); err != nil {
			return nil, err
		}
	}

	return s.bundleRepo.GetWithProducts(ctx, bundle.ID)
}

// DeleteBundle deletes a bundle
func (s *BundleService) DeleteBundle(ctx context.Context, userID, bundleID uuid.UUID, skipUserCheck bool) error {
	bundle, err := s.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		return err
	}
	if bundle == nil {
		return apperror.NewNotFoundError("Bundle")
	}
	if !skipUserCheck && bundle.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.bundleRepo.Delete(ctx, bundleID)
}

// BundleAvailability is the result of checking a bundle against recorded
// stock for a requested quantity
type BundleAvailability struct {
	State        stock.State                     `json:"stock_state"`
	Constituents []stock.ConstituentAvailability `json:"constituents"`
}

// CheckAvailability reconciles a bundle quantity against every
// constituent's stock. Any shortage surfaces the confirmation flow for
// the bundle as a whole; availability never blocks outright.
func (s *BundleService) CheckAvailability(ctx context.Context, bundleID uuid.UUID, quantity float64) (*BundleAvailability, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}

	bundle, err := s.bundleRepo.GetWithProducts(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, apperror.NewNotFoundError("Bundle")
	}

	constituents := make([]stock.ConstituentAvailability, 0, len(bundle.Products))
	for _, bp := range bundle.Products {
		constituents = append(constituents, stock.ConstituentAvailability{
			ProductID: bp.ProductID.String(),
			Name:      bp.Product.Name,
			Required:  bp.Quantity * quantity,
			Available: bp.Product.CurrentStock,
		})
	}

	rec, results := stock.CheckBundle(constituents)
	return &BundleAvailability{
		State:        rec.State(),
		Constituents: results,
	}, nil
}

// BuildBundleItem assembles the transaction line payload for a bundle,
// including the individual-versus-bundle price comparison
func (s *BundleService) BuildBundleItem(ctx context.Context, bundleID uuid.UUID, quantity float64) (*entity.TransactionItem, error) {
	bundle, err := s.bundleRepo.GetWithProducts(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, apperror.NewNotFoundError("Bundle")
	}

	var individualPrice int64
	constituents := make([]entity.BundleConstituent, 0, len(bundle.Products))
	for _, bp := range bundle.Products {
		lineCents := pricing.Cents(bp.Quantity * float64(bp.Product.SellingPrice) / 100)
		individualPrice += lineCents
		constituents = append(constituents, entity.BundleConstituent{
			ProductID: bp.ProductID,
			Name:      bp.Product.Name,
			Quantity:  bp.Quantity,
			UnitPrice: bp.Product.SellingPrice,
		})
	}

	item := &entity.TransactionItem{
		ItemType:   enum.ItemTypeBundle,
		Name:       bundle.Name,
		Quantity:   quantity,
		SaleMode:   enum.SaleModeQuantity,
		UnitPrice:  bundle.BundlePrice,
		TotalPrice: pricing.Cents(float64(bundle.BundlePrice) / 100 * quantity),
		Bundle: &entity.BundleData{
			BundleID:        bundle.ID,
			Constituents:    constituents,
			IndividualPrice: individualPrice,
			BundlePrice:     bundle.BundlePrice,
			Savings:         individualPrice - bundle.BundlePrice,
		},
	}
	return item, nil
}
