package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/domain/enum"
)

func TestTransactionItemJSONRoundTripKeepsPrices(t *testing.T) {
	productID := uuid.New()
	item := TransactionItem{
		ID:             uuid.New(),
		ItemType:       enum.ItemTypeProduct,
		Name:           "Lavender Oil",
		Quantity:       2,
		SaleMode:       enum.SaleModeQuantity,
		UnitPrice:      5000,
		TotalPrice:     8000,
		DiscountAmount: 2000,
		ProductID:      &productID,
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored TransactionItem
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if restored.UnitPrice != 5000 {
		t.Fatalf("expected unit price 5000 cents, got %d", restored.UnitPrice)
	}
	if restored.TotalPrice != 8000 {
		t.Fatalf("expected total price 8000 cents, got %d", restored.TotalPrice)
	}
	if restored.DiscountAmount != 2000 {
		t.Fatalf("expected discount 2000 cents, got %d", restored.DiscountAmount)
	}
	if restored.ItemType != enum.ItemTypeProduct || restored.Quantity != 2 {
		t.Fatalf("unexpected restored item: %+v", restored)
	}
	if restored.ProductID == nil || *restored.ProductID != productID {
		t.Fatal("expected product reference preserved")
	}
}

func TestTransactionItemJSONEmitsDecimals(t *testing.T) {
	item := TransactionItem{UnitPrice: 1667, TotalPrice: 1667}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["unit_price"] != 16.67 {
		t.Fatalf("expected decimal unit price 16.67, got %v", out["unit_price"])
	}
}
