package repository

import (
	"context"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// DraftRepository defines the interface for draft persistence. Upsert is
// the autosave path: the same draft ID is written repeatedly during one
// editing session.
type DraftRepository interface {
	Upsert(ctx context.Context, draft *entity.Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, skipUserFilter bool) ([]entity.Draft, int64, error)
	// DeleteExpired removes drafts past their retention window
	DeleteExpired(ctx context.Context) error
}
