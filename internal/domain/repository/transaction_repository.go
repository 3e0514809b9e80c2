package repository

import (
	"context"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error
	List(ctx context.Context, userID uuid.UUID, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *TransactionCursorFilterParams) ([]entity.Transaction, error)
	// GetUnpaid returns transactions whose paid amount does not cover the total
	GetUnpaid(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Status         *enum.TransactionStatus
	PaymentStatus  *enum.PaymentStatus
	CustomerID     *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all transactions (for super-admin)
}

// TransactionCursorFilterParams contains cursor-based filtering for transaction queries
type TransactionCursorFilterParams struct {
	Cursor         *pagination.CursorParams
	Search         string
	Status         *enum.TransactionStatus
	CustomerID     *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SkipUserFilter bool
}

// TransactionItemRepository defines the interface for item data operations
type TransactionItemRepository interface {
	Create(ctx context.Context, item *entity.TransactionItem) error
	CreateBatch(ctx context.Context, items []entity.TransactionItem) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTransactionID(ctx context.Context, transactionID uuid.UUID) error
}
