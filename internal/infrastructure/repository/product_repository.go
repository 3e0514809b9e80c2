package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errInsufficientStock = errors.New("insufficient stock for one or more products")

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Category").
		Preload("Unit").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Category").
		Preload("Unit").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("code = ?", code).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Unit").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(ClinicScope(ctx))

	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchTerm, searchTerm)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.UnitID != nil {
		query = query.Where("unit_id = ?", *params.UnitID)
	}

	if params.LowStock {
		query = query.Where("is_service = false AND current_stock <= stock_alert")
	}

	if params.ServicesOnly {
		query = query.Where("is_service = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if params.SortBy != "" {
		switch params.SortBy {
		case "name", "code", "current_stock", "selling_price", "created_at":
			sortBy = params.SortBy
		}
	}
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	err := query.
		Preload("Category").
		Preload("Unit").
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *repository.ProductCursorFilterParams) ([]entity.Product, error) {
	var products []entity.Product

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(ClinicScope(ctx))

	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchTerm, searchTerm)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.UnitID != nil {
		query = query.Where("unit_id = ?", *params.UnitID)
	}

	if params.LowStock {
		query = query.Where("is_service = false AND current_stock <= stock_alert")
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		cursorID, err := uuid.Parse(cursor.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor id: %w", err)
		}
		// Keyset over (created_at, id) keeps ordering stable across inserts
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursorID)
	}

	// Fetch one extra row so the caller can detect a next page
	err = query.
		Preload("Category").
		Preload("Unit").
		Order("created_at ASC, id ASC").
		Limit(params.Cursor.Limit + 1).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Unit").
		Where("user_id = ? AND is_service = false AND current_stock <= stock_alert", userID).
		Order("current_stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DeductStockBatch decrements stock inside a single transaction. Without the
// override each row update is guarded by a stock check and failed product IDs
// are collected; with the override the guard is dropped and stock may go
// negative, to be reconciled against the physical count later.
func (r *productRepository) DeductStockBatch(ctx context.Context, deductions map[uuid.UUID]float64, allowNegative bool) ([]uuid.UUID, error) {
	var failed []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, amount := range deductions {
			if amount <= 0 {
				continue
			}

			query := tx.Model(&entity.Product{}).
				Where("id = ? AND is_service = false", productID)
			if !allowNegative {
				query = query.Where("current_stock >= ?", amount)
			}

			result := query.UpdateColumn("current_stock", gorm.Expr("current_stock - ?", amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Either insufficient stock or a service row; services
				// never reach here because callers filter them out.
				failed = append(failed, productID)
			}
		}

		if len(failed) > 0 && !allowNegative {
			// Roll back every deduction made so far
			return errInsufficientStock
		}
		return nil
	})

	if len(failed) > 0 {
		return failed, nil
	}
	return nil, err
}

func (r *productRepository) RestoreStockBatch(ctx context.Context, restorations map[uuid.UUID]float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, amount := range restorations {
			if amount <= 0 {
				continue
			}
			err := tx.Model(&entity.Product{}).
				Where("id = ? AND is_service = false", productID).
				UpdateColumn("current_stock", gorm.Expr("current_stock + ?", amount)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{}).Scopes(ClinicScope(ctx))

	if !skipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) repository.UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, unit *entity.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error) {
	var unit entity.Unit
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) GetBySlug(ctx context.Context, slug string) (*entity.Unit, error) {
	var unit entity.Unit
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("slug = ?", slug).
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *entity.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Unit{}, "id = ?", id).Error
}

func (r *unitRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Unit, int64, error) {
	var units []entity.Unit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Unit{}).Scopes(ClinicScope(ctx))

	if !skipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&units).Error
	if err != nil {
		return nil, 0, err
	}

	return units, total, nil
}
