package service

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClinicService handles clinic-related operations
type ClinicService struct {
	clinicRepo repository.ClinicRepository
}

// NewClinicService creates a new clinic service
func NewClinicService(clinicRepo repository.ClinicRepository) *ClinicService {
	return &ClinicService{clinicRepo: clinicRepo}
}

// CreateClinicInput represents input for creating a clinic
type CreateClinicInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	Settings *entity.ClinicSettings
}

// CreateClinic creates a new clinic
func (s *ClinicService) CreateClinic(ctx context.Context, input *CreateClinicInput) (*entity.Clinic, error) {
	exists, err := s.clinicRepo.SlugExists(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Clinic slug already exists")
	}

	settings := entity.DefaultClinicSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	clinic := &entity.Clinic{
		Name:     input.Name,
		Slug:     input.Slug,
		OwnerID:  input.OwnerID,
		Settings: settings,
	}

	if err := s.clinicRepo.Create(ctx, clinic); err != nil {
		return nil, err
	}

	// Add owner as member
	membership := &entity.ClinicMembership{
		ClinicID: clinic.ID,
		UserID:   input.OwnerID,
		Role:     "owner",
	}
	_ = s.clinicRepo.AddMember(ctx, membership)

	return clinic, nil
}

// GetClinic retrieves a clinic by ID
func (s *ClinicService) GetClinic(ctx context.Context, id uuid.UUID) (*entity.Clinic, error) {
	clinic, err := s.clinicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, apperror.ErrNotFound
	}
	return clinic, nil
}

// GetUserClinics retrieves all clinics a user belongs to
func (s *ClinicService) GetUserClinics(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Clinic], error) {
	clinics, total, err := s.clinicRepo.GetUserClinics(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clinics, pag), nil
}

// UpdateClinicInput represents input for updating a clinic
type UpdateClinicInput struct {
	ID       uuid.UUID
	Name     string
	Settings *entity.ClinicSettings
}

// UpdateClinic updates a clinic
func (s *ClinicService) UpdateClinic(ctx context.Context, input *UpdateClinicInput) (*entity.Clinic, error) {
	clinic, err := s.clinicRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != "" {
		clinic.Name = input.Name
	}
	if input.Settings != nil {
		clinic.Settings = *input.Settings
	}

	if err := s.clinicRepo.Update(ctx, clinic); err != nil {
		return nil, err
	}

	return clinic, nil
}

// InviteMemberInput represents input for inviting a user to a clinic
type InviteMemberInput struct {
	ClinicID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

// InviteMember adds a user to a clinic
func (s *ClinicService) InviteMember(ctx context.Context, input *InviteMemberInput) error {
	isMember, _ := s.clinicRepo.IsMember(ctx, input.ClinicID, input.UserID)
	if isMember {
		return apperror.NewConflictError("User is already a member of this clinic")
	}

	role := input.Role
	if role == "" {
		role = "member"
	}

	membership := &entity.ClinicMembership{
		ClinicID: input.ClinicID,
		UserID:   input.UserID,
		Role:     role,
	}

	return s.clinicRepo.AddMember(ctx, membership)
}

// RemoveMember removes a user from a clinic
func (s *ClinicService) RemoveMember(ctx context.Context, clinicID, userID uuid.UUID) error {
	return s.clinicRepo.RemoveMember(ctx, clinicID, userID)
}

// GetClinicMembers retrieves all members of a clinic
func (s *ClinicService) GetClinicMembers(ctx context.Context, clinicID uuid.UUID) ([]entity.ClinicMembership, error) {
	return s.clinicRepo.GetMembers(ctx, clinicID)
}

// IsMember reports whether a user belongs to a clinic
func (s *ClinicService) IsMember(ctx context.Context, clinicID, userID uuid.UUID) (bool, error) {
	return s.clinicRepo.IsMember(ctx, clinicID, userID)
}
