package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create persists the transaction and its items in one insert; gorm cascades
// the Items association.
func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Items").
		Preload("Customer").
		Where("invoice_no = ?", invoiceNo).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(ClinicScope(ctx)).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TransactionStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(ClinicScope(ctx))

	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if params.SortBy != "" {
		switch params.SortBy {
		case "invoice_no", "total_amount", "created_at":
			sortBy = params.SortBy
		}
	}
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	err := query.
		Preload("Customer").
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (r *transactionRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *repository.TransactionCursorFilterParams) ([]entity.Transaction, error) {
	var transactions []entity.Transaction

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(ClinicScope(ctx))

	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		cursorID, err := uuid.Parse(cursor.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor id: %w", err)
		}
		// Newest first, so the keyset walks backwards in time
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursorID)
	}

	err = query.
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Limit(params.Cursor.Limit + 1).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *transactionRepository) GetUnpaid(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Scopes(ClinicScope(ctx)).
		Where("user_id = ? AND status = ? AND paid_amount < total_amount",
			userID, enum.TransactionStatusCompleted)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Customer").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

type transactionItemRepository struct {
	db *gorm.DB
}

// NewTransactionItemRepository creates a new transaction item repository
func NewTransactionItemRepository(db *gorm.DB) repository.TransactionItemRepository {
	return &transactionItemRepository{db: db}
}

func (r *transactionItemRepository) Create(ctx context.Context, item *entity.TransactionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *transactionItemRepository) CreateBatch(ctx context.Context, items []entity.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *transactionItemRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]entity.TransactionItem, error) {
	var items []entity.TransactionItem
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *transactionItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.TransactionItem{}, "id = ?", id).Error
}

func (r *transactionItemRepository) DeleteByTransactionID(ctx context.Context, transactionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.TransactionItem{}, "transaction_id = ?", transactionID).Error
}
