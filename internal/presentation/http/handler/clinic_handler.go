package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/presentation/http/dto/request"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/internal/presentation/http/middleware"
	"github.com/clinova/pos-api/pkg/pagination"
)

// ClinicHandler handles clinic management HTTP requests
type ClinicHandler struct {
	clinicService *service.ClinicService
}

// NewClinicHandler creates a new clinic handler
func NewClinicHandler(clinicService *service.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

// ListMine handles listing the clinics the caller belongs to
func (h *ClinicHandler) ListMine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.clinicService.GetUserClinics(c.Request.Context(), *userID, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Clinics retrieved successfully", result)
}

// Create handles creating a clinic; the caller becomes its owner
func (h *ClinicHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clinic, err := h.clinicService.CreateClinic(c.Request.Context(), &service.CreateClinicInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Clinic created successfully", clinic)
}

// Current returns the clinic resolved for this request
func (h *ClinicHandler) Current(c *gin.Context) {
	clinicID := middleware.GetClinicID(c)
	if clinicID == uuid.Nil {
		response.BadRequest(c, "Clinic context required")
		return
	}

	clinic, err := h.clinicService.GetClinic(c.Request.Context(), clinicID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Clinic retrieved successfully", clinic)
}

// Update handles updating the current clinic's name or settings
func (h *ClinicHandler) Update(c *gin.Context) {
	clinicID := middleware.GetClinicID(c)
	if clinicID == uuid.Nil {
		response.BadRequest(c, "Clinic context required")
		return
	}

	var req request.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clinic, err := h.clinicService.UpdateClinic(c.Request.Context(), &service.UpdateClinicInput{
		ID:       clinicID,
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Clinic updated successfully", clinic)
}

// Members handles listing the current clinic's members
func (h *ClinicHandler) Members(c *gin.Context) {
	clinicID := middleware.GetClinicID(c)
	if clinicID == uuid.Nil {
		response.BadRequest(c, "Clinic context required")
		return
	}

	members, err := h.clinicService.GetClinicMembers(c.Request.Context(), clinicID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// InviteMember handles adding a user to the current clinic
func (h *ClinicHandler) InviteMember(c *gin.Context) {
	clinicID := middleware.GetClinicID(c)
	if clinicID == uuid.Nil {
		response.BadRequest(c, "Clinic context required")
		return
	}

	var req request.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.clinicService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		ClinicID: clinicID,
		UserID:   memberID,
		Role:     req.Role,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member added successfully", nil)
}

// RemoveMember handles removing a user from the current clinic
func (h *ClinicHandler) RemoveMember(c *gin.Context) {
	clinicID := middleware.GetClinicID(c)
	if clinicID == uuid.Nil {
		response.BadRequest(c, "Clinic context required")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.clinicService.RemoveMember(c.Request.Context(), clinicID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
