package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
)

// stubProductRepo serves a fixed product catalog; the embedded interface
// panics on anything else, which these tests never reach.
type stubProductRepo struct {
	repository.ProductRepository
	products []entity.Product
}

func (s stubProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	found := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				found = append(found, p)
			}
		}
	}
	return found, nil
}

func TestValidateIngredientsCollectsErrorsAndWarnings(t *testing.T) {
	stocked := entity.Product{ID: uuid.New(), Name: "Lavender Oil", CurrentStock: 100}
	low := entity.Product{ID: uuid.New(), Name: "Rose Absolute", CurrentStock: 5}
	svc := NewBlendService(nil, stubProductRepo{products: []entity.Product{stocked, low}})

	ingredients := []entity.BlendIngredient{
		{ProductID: stocked.ID, Quantity: 10},
		{ProductID: low.ID, Quantity: 8},
		{ProductID: uuid.New(), Quantity: 3},
		{ProductID: stocked.ID, Quantity: 0},
	}

	result, err := svc.ValidateIngredients(context.Background(), ingredients, 1)
	if err != nil {
		t.Fatalf("ValidateIngredients: %v", err)
	}

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %+v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Field != "ingredients[2].product_id" {
		t.Errorf("expected unknown product error on ingredients[2], got %q", result.Errors[0].Field)
	}
	if result.Errors[1].Field != "ingredients[3].quantity" {
		t.Errorf("expected quantity error on ingredients[3], got %q", result.Errors[1].Field)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 shortage warning, got %d: %+v", len(result.Warnings), result.Warnings)
	}
	w := result.Warnings[0]
	if w.ProductID != low.ID || w.Requested != 8 || w.Available != 5 {
		t.Errorf("unexpected shortage warning: %+v", w)
	}
}

func TestValidateIngredientsScalesByBatchMultiplier(t *testing.T) {
	oil := entity.Product{ID: uuid.New(), Name: "Lavender Oil", CurrentStock: 25}
	svc := NewBlendService(nil, stubProductRepo{products: []entity.Product{oil}})

	ingredients := []entity.BlendIngredient{{ProductID: oil.ID, Quantity: 10}}

	// One batch fits the stock.
	result, err := svc.ValidateIngredients(context.Background(), ingredients, 1)
	if err != nil {
		t.Fatalf("ValidateIngredients: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("single batch should fit, got warnings: %+v", result.Warnings)
	}

	// Three batches do not.
	result, err = svc.ValidateIngredients(context.Background(), ingredients, 3)
	if err != nil {
		t.Fatalf("ValidateIngredients: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected shortage at multiplier 3, got %+v", result.Warnings)
	}
	if result.Warnings[0].Requested != 30 {
		t.Errorf("expected requested 30, got %v", result.Warnings[0].Requested)
	}
}

func TestValidateIngredientsRequiresIngredients(t *testing.T) {
	svc := NewBlendService(nil, stubProductRepo{})

	result, err := svc.ValidateIngredients(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("ValidateIngredients: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "ingredients" {
		t.Fatalf("expected a single ingredients error, got %+v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}
