package request

import "github.com/clinova/pos-api/internal/domain/entity"

// CreateClinicRequest represents clinic creation
type CreateClinicRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Slug string `json:"slug" binding:"required,min=2,max=50"`
}

// UpdateClinicRequest represents clinic update
type UpdateClinicRequest struct {
	Name     string                 `json:"name" binding:"omitempty,min=2,max=100"`
	Settings *entity.ClinicSettings `json:"settings"`
}

// InviteMemberRequest adds a user to a clinic
type InviteMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=member admin"`
}
