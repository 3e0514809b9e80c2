package repository

import (
	"context"
	"errors"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *gorm.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

// Upsert writes the draft, overwriting the form snapshot if the row already
// exists. Autosave calls this repeatedly with the same draft ID.
func (r *draftRepository) Upsert(ctx context.Context, draft *entity.Draft) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "form_data", "expires_at", "updated_at",
			}),
		}).
		Create(draft).Error
}

func (r *draftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Draft, error) {
	var draft entity.Draft
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Draft{}, "id = ?", id).Error
}

func (r *draftRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, skipUserFilter bool) ([]entity.Draft, int64, error) {
	var drafts []entity.Draft
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Draft{}).
		Scopes(ClinicScope(ctx)).
		Where("expires_at > ?", time.Now())

	if !skipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("updated_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&drafts).Error
	if err != nil {
		return nil, 0, err
	}

	return drafts, total, nil
}

func (r *draftRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&entity.Draft{}).Error
}
