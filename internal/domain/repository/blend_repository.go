package repository

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// BlendTemplateRepository defines the interface for fixed blend templates
type BlendTemplateRepository interface {
	Create(ctx context.Context, template *entity.BlendTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BlendTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*entity.BlendTemplate, error)
	Update(ctx context.Context, template *entity.BlendTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.BlendTemplate, int64, error)
}

// BundleRepository defines the interface for promotional bundles
type BundleRepository interface {
	Create(ctx context.Context, bundle *entity.Bundle) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bundle, error)
	// GetWithProducts loads the bundle and its constituent products
	GetWithProducts(ctx context.Context, id uuid.UUID) (*entity.Bundle, error)
	Update(ctx context.Context, bundle *entity.Bundle) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Bundle, int64, error)
	ReplaceProducts(ctx context.Context, bundleID uuid.UUID, products []entity.BundleProduct) error
}
