package repository

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *ProductCursorFilterParams) ([]entity.Product, error)
	// GetLowStock returns products at or below their stock alert level,
	// including negative-stock rows awaiting physical reconciliation
	GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error)
	// DeductStockBatch decrements stock by base-unit amounts. With
	// allowNegative false it fails per product on insufficient stock and
	// returns the failed IDs; with allowNegative true (confirmed
	// out-of-stock override) stock may go below zero.
	DeductStockBatch(ctx context.Context, deductions map[uuid.UUID]float64, allowNegative bool) ([]uuid.UUID, error)
	// RestoreStockBatch adds stock back (cancellations)
	RestoreStockBatch(ctx context.Context, restorations map[uuid.UUID]float64) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	CategoryID     *uuid.UUID
	UnitID         *uuid.UUID
	LowStock       bool
	ServicesOnly   bool
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all products (for super-admin)
}

// ProductCursorFilterParams contains cursor-based filtering for product queries
type ProductCursorFilterParams struct {
	Cursor         *pagination.CursorParams
	Search         string
	CategoryID     *uuid.UUID
	UnitID         *uuid.UUID
	LowStock       bool
	SkipUserFilter bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Category, int64, error)
}

// UnitRepository defines the interface for unit data operations
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Unit, int64, error)
}
