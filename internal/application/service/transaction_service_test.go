package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
)

// stubCustomerRepo resolves every customer lookup; the embedded interface
// panics on anything else, which these tests never reach.
type stubCustomerRepo struct {
	repository.CustomerRepository
}

func (stubCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return &entity.Customer{ID: id, Name: "Test Customer"}, nil
}

func validationTestService() *TransactionService {
	return NewTransactionService(nil, nil, nil, stubCustomerRepo{}, nil)
}

func validItem() entity.TransactionItem {
	return entity.TransactionItem{
		ID:         uuid.New(),
		ItemType:   enum.ItemTypeMiscellaneous,
		Name:       "Dropper bottle",
		Quantity:   1,
		SaleMode:   enum.SaleModeQuantity,
		UnitPrice:  500,
		TotalPrice: 500,
	}
}

func TestCreateTransactionRejectsUnknownDiscriminants(t *testing.T) {
	svc := validationTestService()
	ctx := infraRepo.WithClinic(context.Background(), uuid.New())
	customerID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*entity.TransactionItem)
	}{
		{"unknown item type", func(it *entity.TransactionItem) { it.ItemType = "giftcard" }},
		{"unknown sale mode", func(it *entity.TransactionItem) { it.SaleMode = "weight" }},
		{"empty sale mode", func(it *entity.TransactionItem) { it.SaleMode = "" }},
		{"zero quantity", func(it *entity.TransactionItem) { it.Quantity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			_, err := svc.CreateTransaction(ctx, &CreateTransactionInput{
				UserID:     uuid.New(),
				CustomerID: &customerID,
				Items:      []entity.TransactionItem{item},
			})
			if err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateTransactionRequiresItemsAndCustomer(t *testing.T) {
	svc := validationTestService()
	ctx := infraRepo.WithClinic(context.Background(), uuid.New())
	customerID := uuid.New()

	if _, err := svc.CreateTransaction(ctx, &CreateTransactionInput{
		UserID:     uuid.New(),
		CustomerID: &customerID,
	}); err == nil {
		t.Fatal("expected error for empty item collection")
	}

	item := validItem()
	if _, err := svc.CreateTransaction(ctx, &CreateTransactionInput{
		UserID: uuid.New(),
		Items:  []entity.TransactionItem{item},
	}); err == nil {
		t.Fatal("expected error for missing customer")
	}

	if _, err := svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		UserID:     uuid.New(),
		CustomerID: &customerID,
		Items:      []entity.TransactionItem{item},
	}); err == nil {
		t.Fatal("expected error without clinic context")
	}
}
