package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/clinova/pos-api/pkg/utils"
	"github.com/google/uuid"
)

// TransactionService composes, submits and settles point-of-sale
// transactions
type TransactionService struct {
	transactionRepo repository.TransactionRepository
	itemRepo        repository.TransactionItemRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	draftRepo       repository.DraftRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	itemRepo repository.TransactionItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	draftRepo repository.DraftRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		draftRepo:       draftRepo,
	}
}

// CreateTransactionInput represents the submit-transaction input. Items
// arrive fully priced by the session engine; the service re-derives the
// totals rather than trusting client figures.
type CreateTransactionInput struct {
	UserID             uuid.UUID
	CustomerID         *uuid.UUID
	DraftID            *uuid.UUID
	Items              []entity.TransactionItem
	DiscountMode       enum.DiscountMode
	AdditionalDiscount float64
	PaymentMethod      string
	PaidAmount         float64
	Notes              *string
	// StockOverrideConfirmed carries the operator's confirmed decision to
	// sell past recorded stock; deductions may then go negative
	StockOverrideConfirmed bool
}

// CreateTransaction validates, prices and persists a transaction, deducts
// stock, and clears the originating draft. The handler layer wraps this in
// the idempotency middleware so a replayed submit returns the original
// response instead of running this twice.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "Transaction must contain at least one item"},
		})
	}
	if input.CustomerID == nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "customer_id", Message: "Customer is required"},
		})
	}

	customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	for i := range input.Items {
		if !input.Items[i].ItemType.Valid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown item type %q", input.Items[i].ItemType))
		}
		if !input.Items[i].SaleMode.Valid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown sale mode %q", input.Items[i].SaleMode))
		}
		if input.Items[i].Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be greater than zero"},
			})
		}
	}

	deductions, productMap, err := s.collectDeductions(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(input.Items, pricing.AdditionalDiscount{
		Mode:  input.DiscountMode,
		Value: input.AdditionalDiscount,
	}, pricing.Cents(input.PaidAmount))

	if len(deductions) > 0 {
		failedIDs, err := s.productRepo.DeductStockBatch(ctx, deductions, input.StockOverrideConfirmed)
		if err != nil {
			return nil, err
		}
		if len(failedIDs) > 0 {
			var failedNames []string
			for _, id := range failedIDs {
				if p, exists := productMap[id]; exists {
					failedNames = append(failedNames, p.Name)
				}
			}
			return nil, apperror.NewAppError(409, fmt.Sprintf("Insufficient stock for: %v (confirm override to proceed)", failedNames))
		}
	}

	txn := &entity.Transaction{
		ClinicID:           clinicID,
		UserID:             input.UserID,
		CustomerID:         input.CustomerID,
		InvoiceNo:          utils.GenerateInvoiceNo(),
		Status:             enum.TransactionStatusCompleted,
		Subtotal:           totals.SubtotalCents,
		ItemDiscountTotal:  totals.ItemDiscountCents,
		AdditionalDiscount: totals.AdditionalDiscountCents,
		DiscountMode:       input.DiscountMode,
		TotalAmount:        totals.TotalCents,
		PaidAmount:         totals.PaidCents,
		ChangeAmount:       totals.ChangeCents,
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      totals.PaymentStatus,
		TransactionDate:    time.Now(),
		Notes:              input.Notes,
		Items:              input.Items,
	}

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		// Stock was already deducted, put it back
		_ = s.productRepo.RestoreStockBatch(ctx, deductions)
		return nil, err
	}

	// A submitted draft is finished; its identity must not be reused
	if input.DraftID != nil {
		_ = s.draftRepo.Delete(ctx, *input.DraftID)
	}

	return s.transactionRepo.GetWithItems(ctx, txn.ID)
}

// collectDeductions maps items to base-unit stock deductions. Services
// and payloads without a backing product consume no stock; blend
// ingredients and bundle constituents deduct per product.
func (s *TransactionService) collectDeductions(ctx context.Context, items []entity.TransactionItem) (map[uuid.UUID]float64, map[uuid.UUID]*entity.Product, error) {
	deductions := make(map[uuid.UUID]float64)

	for i := range items {
		item := &items[i]
		switch item.ItemType {
		case enum.ItemTypeProduct, enum.ItemTypeFixedBlend:
			if item.ProductID == nil || item.IsService {
				continue
			}
			amount := item.ConvertedQuantity
			if amount <= 0 {
				amount = item.Quantity
			}
			deductions[*item.ProductID] += amount
		case enum.ItemTypeCustomBlend:
			if item.CustomBlend == nil {
				continue
			}
			for _, ing := range item.CustomBlend.Ingredients {
				deductions[ing.ProductID] += ing.Quantity * item.Quantity
			}
		case enum.ItemTypeBundle:
			if item.Bundle == nil {
				continue
			}
			for _, c := range item.Bundle.Constituents {
				deductions[c.ProductID] += c.Quantity * item.Quantity
			}
		}
	}

	if len(deductions) == 0 {
		return deductions, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(deductions))
	for id := range deductions {
		ids = append(ids, id)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for id := range deductions {
		product, exists := productMap[id]
		if !exists {
			return nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
		// Service rows never consume stock even when referenced indirectly
		if product.IsService {
			delete(deductions, id)
		}
	}

	return deductions, productMap, nil
}

// GetTransaction retrieves a transaction with its items
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// GetTransactionByInvoice retrieves a transaction by its invoice number
func (s *TransactionService) GetTransactionByInvoice(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}

// ListTransactionsWithCursor lists transactions with cursor-based pagination
func (s *TransactionService) ListTransactionsWithCursor(ctx context.Context, userID uuid.UUID, params *repository.TransactionCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Transaction], error) {
	transactions, err := s.transactionRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(transactions, params.Cursor.Limit,
		func(t entity.Transaction) string { return t.ID.String() },
		func(t entity.Transaction) time.Time { return t.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelTransaction cancels a transaction and restores deducted stock
func (s *TransactionService) CancelTransaction(ctx context.Context, userID, transactionID uuid.UUID, skipUserCheck bool) error {
	txn, err := s.transactionRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn == nil {
		return apperror.NewNotFoundError("Transaction")
	}

	if !skipUserCheck && txn.UserID != userID {
		return apperror.ErrForbidden
	}

	if txn.Status == enum.TransactionStatusCancelled {
		return apperror.NewAppError(400, "Transaction is already cancelled")
	}

	restorations, _, err := s.collectDeductions(ctx, txn.Items)
	if err != nil {
		return err
	}
	if len(restorations) > 0 {
		if err := s.productRepo.RestoreStockBatch(ctx, restorations); err != nil {
			return err
		}
	}

	return s.transactionRepo.UpdateStatus(ctx, transactionID, enum.TransactionStatusCancelled)
}

// GetUnpaidTransactions returns completed transactions with an outstanding
// balance
func (s *TransactionService) GetUnpaidTransactions(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.GetUnpaid(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}

// PayDue records a payment towards a transaction's outstanding balance
func (s *TransactionService) PayDue(ctx context.Context, userID, transactionID uuid.UUID, amount float64, skipUserCheck bool) error {
	txn, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn == nil {
		return apperror.NewNotFoundError("Transaction")
	}

	if !skipUserCheck && txn.UserID != userID {
		return apperror.ErrForbidden
	}

	txn.PaidAmount += pricing.Cents(amount)

	if txn.PaidAmount >= txn.TotalAmount {
		txn.ChangeAmount = txn.PaidAmount - txn.TotalAmount
		txn.PaymentStatus = enum.PaymentStatusPaid
	} else if txn.PaidAmount > 0 {
		txn.PaymentStatus = enum.PaymentStatusPartial
	}

	return s.transactionRepo.Update(ctx, txn)
}
