package repository

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClinicRepository defines the interface for clinic data operations
type ClinicRepository interface {
	Create(ctx context.Context, clinic *entity.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Clinic, error)
	// GetBySlug retrieves a clinic by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Clinic, error)
	Update(ctx context.Context, clinic *entity.Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetUserClinics retrieves all clinics a user belongs to
	GetUserClinics(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Clinic, int64, error)
	AddMember(ctx context.Context, membership *entity.ClinicMembership) error
	RemoveMember(ctx context.Context, clinicID, userID uuid.UUID) error
	GetMembers(ctx context.Context, clinicID uuid.UUID) ([]entity.ClinicMembership, error)
	IsMember(ctx context.Context, clinicID, userID uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}
