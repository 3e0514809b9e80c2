package repository

import (
	"context"
	"errors"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type blendTemplateRepository struct {
	db *gorm.DB
}

// NewBlendTemplateRepository creates a new blend template repository
func NewBlendTemplateRepository(db *gorm.DB) repository.BlendTemplateRepository {
	return &blendTemplateRepository{db: db}
}

func (r *blendTemplateRepository) Create(ctx context.Context, template *entity.BlendTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *blendTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BlendTemplate, error) {
	var template entity.BlendTemplate
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *blendTemplateRepository) GetBySlug(ctx context.Context, slug string) (*entity.BlendTemplate, error) {
	var template entity.BlendTemplate
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("slug = ?", slug).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *blendTemplateRepository) Update(ctx context.Context, template *entity.BlendTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *blendTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.BlendTemplate{}, "id = ?", id).Error
}

func (r *blendTemplateRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.BlendTemplate, int64, error) {
	var templates []entity.BlendTemplate
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.BlendTemplate{}).
		Scopes(ClinicScope(ctx)).
		Where("is_active = true")

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
		Find(&templates).Error
	if err != nil {
		return nil, 0, err
	}

	return templates, total, nil
}

type bundleRepository struct {
	db *gorm.DB
}

// NewBundleRepository creates a new bundle repository
func NewBundleRepository(db *gorm.DB) repository.BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) Create(ctx context.Context, bundle *entity.Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

func (r *bundleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bundle, error) {
	var bundle entity.Bundle
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) GetWithProducts(ctx context.Context, id uuid.UUID) (*entity.Bundle, error) {
	var bundle entity.Bundle
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Products").
		Preload("Products.Product").
		Where("id = ?", id).
		First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) Update(ctx context.Context, bundle *entity.Bundle) error {
	return r.db.WithContext(ctx).Save(bundle).Error
}

func (r *bundleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Bundle{}, "id = ?", id).Error
}

func (r *bundleRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Bundle, int64, error) {
	var bundles []entity.Bundle
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Bundle{}).
		Scopes(ClinicScope(ctx)).
		Where("is_active = true")

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
		Preload("Products").
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&bundles).Error
	if err != nil {
		return nil, 0, err
	}

	return bundles, total, nil
}

// ReplaceProducts swaps a bundle's constituent list atomically.
func (r *bundleRepository) ReplaceProducts(ctx context.Context, bundleID uuid.UUID, products []entity.BundleProduct) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", bundleID).
			Delete(&entity.BundleProduct{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		for i := range products {
			products[i].BundleID = bundleID
		}
		return tx.Create(&products).Error
	})
}
