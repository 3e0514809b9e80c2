package service

import (
	"context"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// DraftService persists in-progress transactions. A draft's identity is
// minted on its first save and reused for every subsequent autosave of
// the same editing session, so repeated saves update one row instead of
// accumulating duplicates.
type DraftService struct {
	draftRepo repository.DraftRepository
	ttl       time.Duration
}

// NewDraftService creates a new draft service
func NewDraftService(draftRepo repository.DraftRepository, ttl time.Duration) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		ttl:       ttl,
	}
}

// SaveDraftInput represents the save-draft input. A nil DraftID mints a
// new identity; a set one updates the existing row.
type SaveDraftInput struct {
	UserID   uuid.UUID
	DraftID  *uuid.UUID
	Name     string
	FormData []byte
}

// SaveDraft upserts the form snapshot and returns the draft, including
// the identity the caller must reuse on the next autosave
func (s *DraftService) SaveDraft(ctx context.Context, input *SaveDraftInput) (*entity.Draft, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}
	if len(input.FormData) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "form_data", Message: "Form data is required"},
		})
	}

	draft := &entity.Draft{
		ClinicID:  clinicID,
		UserID:    input.UserID,
		Name:      input.Name,
		FormData:  input.FormData,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if input.DraftID != nil {
		existing, err := s.draftRepo.GetByID(ctx, *input.DraftID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.UserID != input.UserID {
			return nil, apperror.ErrForbidden
		}
		draft.ID = *input.DraftID
	}

	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft retrieves a draft for resumption
func (s *DraftService) GetDraft(ctx context.Context, userID, draftID uuid.UUID, skipUserCheck bool) (*entity.Draft, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil || draft.IsExpired() {
		return nil, apperror.NewNotFoundError("Draft")
	}
	if !skipUserCheck && draft.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return draft, nil
}

// ListDrafts lists a user's unexpired drafts
func (s *DraftService) ListDrafts(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, skipUserFilter bool) (*pagination.PaginatedResult[entity.Draft], error) {
	drafts, total, err := s.draftRepo.List(ctx, userID, params, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(drafts, pag), nil
}

// DeleteDraft discards a draft. Called both explicitly and after a
// successful submission, ending the draft's identity.
func (s *DraftService) DeleteDraft(ctx context.Context, userID, draftID uuid.UUID, skipUserCheck bool) error {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if draft == nil {
		return apperror.NewNotFoundError("Draft")
	}
	if !skipUserCheck && draft.UserID != userID {
		return apperror.ErrForbidden
	}
	return s.draftRepo.Delete(ctx, draftID)
}

// CleanupExpired removes drafts past their retention window. Run
// periodically from the process scheduler.
func (s *DraftService) CleanupExpired(ctx context.Context) error {
	return s.draftRepo.DeleteExpired(ctx)
}
