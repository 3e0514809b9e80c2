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

type clinicRepository struct {
	db *gorm.DB
}

// NewClinicRepository creates a new clinic repository
func NewClinicRepository(db *gorm.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *entity.Clinic) error {
	return r.db.WithContext(ctx).Create(clinic).Error
}

func (r *clinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) GetBySlug(ctx context.Context, slug string) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *entity.Clinic) error {
	return r.db.WithContext(ctx).Save(clinic).Error
}

func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Clinic{}, "id = ?", id).Error
}

func (r *clinicRepository) GetUserClinics(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Clinic, int64, error) {
	var clinics []entity.Clinic
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Clinic{}).
		Joins("JOIN clinic_memberships ON clinic_memberships.clinic_id = clinics.id").
		Where("clinic_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("clinics.created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&clinics).Error
	if err != nil {
		return nil, 0, err
	}

	return clinics, total, nil
}

func (r *clinicRepository) AddMember(ctx context.Context, membership *entity.ClinicMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *clinicRepository) RemoveMember(ctx context.Context, clinicID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("clinic_id = ? AND user_id = ?", clinicID, userID).
		Delete(&entity.ClinicMembership{}).Error
}

func (r *clinicRepository) GetMembers(ctx context.Context, clinicID uuid.UUID) ([]entity.ClinicMembership, error) {
	var memberships []entity.ClinicMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("clinic_id = ?", clinicID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	for i := range memberships {
		memberships[i].PopulateUserDetails()
	}
	return memberships, nil
}

func (r *clinicRepository) IsMember(ctx context.Context, clinicID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ClinicMembership{}).
		Where("clinic_id = ? AND user_id = ?", clinicID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clinicRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Clinic{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
