package service

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/clinova/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// CatalogService handles categories and units
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(categoryRepo repository.CategoryRepository, unitRepo repository.UnitRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
	}
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*entity.Category, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	slug := utils.Slugify(name)
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{
		ClinicID: clinicID,
		UserID:   userID,
		Name:     name,
		Slug:     slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category
func (s *CatalogService) UpdateCategory(ctx context.Context, userID uuid.UUID, slug, name string, skipUserCheck bool) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	if !skipUserCheck && category.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	category.Name = name
	category.Slug = utils.Slugify(name)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category
func (s *CatalogService) DeleteCategory(ctx context.Context, userID uuid.UUID, slug string, skipUserCheck bool) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	if !skipUserCheck && category.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}

// ListCategories lists categories
func (s *CatalogService) ListCategories(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Category], error) {
	categories, total, err := s.categoryRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(categories, pag), nil
}

// CreateUnitInput represents the create unit input
type CreateUnitInput struct {
	UserID    uuid.UUID
	Name      string
	ShortCode string
	BaseLabel string
}

// CreateUnit creates a new unit of measurement
func (s *CatalogService) CreateUnit(ctx context.Context, input *CreateUnitInput) (*entity.Unit, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	slug := utils.Slugify(input.Name)
	existing, err := s.unitRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Unit already exists")
	}

	unit := &entity.Unit{
		ClinicID:  clinicID,
		UserID:    input.UserID,
		Name:      input.Name,
		Slug:      slug,
		ShortCode: input.ShortCode,
		BaseLabel: input.BaseLabel,
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// UpdateUnitInput represents the update unit input
type UpdateUnitInput struct {
	UserID        uuid.UUID
	UnitSlug      string
	SkipUserCheck bool
	Name          *string
	ShortCode     *string
	BaseLabel     *string
}

// UpdateUnit updates a unit
func (s *CatalogService) UpdateUnit(ctx context.Context, input *UpdateUnitInput) (*entity.Unit, error) {
	unit, err := s.unitRepo.GetBySlug(ctx, input.UnitSlug)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.NewNotFoundError("Unit")
	}
	if !input.SkipUserCheck && unit.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		unit.Name = *input.Name
		unit.Slug = utils.Slugify(*input.Name)
	}
	if input.ShortCode != nil {
		unit.ShortCode = *input.ShortCode
	}
	if input.BaseLabel != nil {
		unit.BaseLabel = *input.BaseLabel
	}

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit deletes a unit
func (s *CatalogService) DeleteUnit(ctx context.Context, userID uuid.UUID, slug string, skipUserCheck bool) error {
	unit, err := s.unitRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if unit == nil {
		return apperror.NewNotFoundError("Unit")
	}
	if !skipUserCheck && unit.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.unitRepo.Delete(ctx, unit.ID)
}

// ListUnits lists units
func (s *CatalogService) ListUnits(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Unit], error) {
	units, total, err := s.unitRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(units, pag), nil
}
