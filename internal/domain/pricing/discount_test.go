package pricing

import (
	"testing"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
)

func permissive() *entity.DiscountFlags {
	f := entity.PermissiveDiscountFlags()
	return &f
}

func TestEvaluateDiscountEligibleProduct(t *testing.T) {
	res := EvaluateDiscount(DiscountInput{
		ItemType:           enum.ItemTypeProduct,
		SaleMode:           enum.SaleModeQuantity,
		UnitPriceCents:     Cents(50),
		Quantity:           2,
		DiscountPercentage: 20,
		Flags:              permissive(),
	})

	if !res.Eligible {
		t.Fatal("expected item to be eligible")
	}
	if res.DiscountCents != Cents(20) {
		t.Fatalf("expected 2000 cents discount, got %d", res.DiscountCents)
	}
	if res.FinalPriceCents != Cents(80) {
		t.Fatalf("expected final price 8000 cents, got %d", res.FinalPriceCents)
	}
}

func TestEvaluateDiscountRuleOrder(t *testing.T) {
	base := DiscountInput{
		ItemType:           enum.ItemTypeProduct,
		SaleMode:           enum.SaleModeQuantity,
		UnitPriceCents:     Cents(10),
		Quantity:           1,
		DiscountPercentage: 15,
		Flags:              permissive(),
	}

	tests := []struct {
		name   string
		mutate func(*DiscountInput)
	}{
		{"no customer rate", func(in *DiscountInput) { in.DiscountPercentage = 0 }},
		{"service item", func(in *DiscountInput) { in.IsService = true }},
		{"volume sale", func(in *DiscountInput) { in.SaleMode = enum.SaleModeVolume }},
		{"custom blend type", func(in *DiscountInput) { in.ItemType = enum.ItemTypeCustomBlend }},
		{"bundle type", func(in *DiscountInput) { in.ItemType = enum.ItemTypeBundle }},
		{"miscellaneous type", func(in *DiscountInput) { in.ItemType = enum.ItemTypeMiscellaneous }},
		{"flag disabled", func(in *DiscountInput) {
			in.Flags = &entity.DiscountFlags{DiscountableForMembers: false}
		}},
		{"unresolvable product", func(in *DiscountInput) { in.Flags = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			res := EvaluateDiscount(in)
			if res.Eligible {
				t.Fatal("expected ineligible")
			}
			if res.DiscountCents != 0 {
				t.Fatalf("expected zero discount, got %d", res.DiscountCents)
			}
			if res.FinalPriceCents != Cents(10) {
				t.Fatalf("expected undiscounted price 1000 cents, got %d", res.FinalPriceCents)
			}
		})
	}
}

func TestEvaluateDiscountFixedBlendWithoutFlags(t *testing.T) {
	// Fixed blends have no backing product record; nil flags must not
	// disqualify them.
	res := EvaluateDiscount(DiscountInput{
		ItemType:           enum.ItemTypeFixedBlend,
		SaleMode:           enum.SaleModeQuantity,
		UnitPriceCents:     Cents(40),
		Quantity:           1,
		DiscountPercentage: 10,
		Flags:              nil,
	})

	if !res.Eligible {
		t.Fatal("expected fixed blend to be eligible")
	}
	if res.FinalPriceCents != Cents(36) {
		t.Fatalf("expected final price 3600 cents, got %d", res.FinalPriceCents)
	}
}

func TestApplyDiscountWritesResult(t *testing.T) {
	item := entity.TransactionItem{
		ItemType:  enum.ItemTypeProduct,
		SaleMode:  enum.SaleModeQuantity,
		UnitPrice: Cents(25),
		Quantity:  4,
	}

	ApplyDiscount(&item, 10, permissive())

	if item.DiscountAmount != Cents(10) {
		t.Fatalf("expected 1000 cents discount, got %d", item.DiscountAmount)
	}
	if item.TotalPrice != Cents(90) {
		t.Fatalf("expected total 9000 cents, got %d", item.TotalPrice)
	}

	// Re-applying with the same inputs must not compound
	ApplyDiscount(&item, 10, permissive())
	if item.TotalPrice != Cents(90) {
		t.Fatalf("expected stable total 9000 cents, got %d", item.TotalPrice)
	}
}

func TestApplyDiscountClearsStaleOnCustomerChange(t *testing.T) {
	item := entity.TransactionItem{
		ItemType:        enum.ItemTypeProduct,
		SaleMode:        enum.SaleModeQuantity,
		UnitPrice:       Cents(25),
		Quantity:        2,
		DiscountAmount:  Cents(5),
		DiscountPercent: 10,
	}

	// Customer removed: rate is zero, discount must reset
	ApplyDiscount(&item, 0, permissive())

	if item.DiscountAmount != 0 || item.DiscountPercent != 0 {
		t.Fatalf("expected discount cleared, got amount=%d percent=%g", item.DiscountAmount, item.DiscountPercent)
	}
	if item.TotalPrice != Cents(50) {
		t.Fatalf("expected total 5000 cents, got %d", item.TotalPrice)
	}
}

func TestApplyDiscountLeavesCustomBlendPrice(t *testing.T) {
	item := entity.TransactionItem{
		ItemType:       enum.ItemTypeCustomBlend,
		SaleMode:       enum.SaleModeQuantity,
		UnitPrice:      Cents(120),
		TotalPrice:     Cents(120),
		Quantity:       1,
		DiscountAmount: Cents(3),
	}

	ApplyDiscount(&item, 15, nil)

	if item.TotalPrice != Cents(120) {
		t.Fatalf("expected chosen price kept, got %d", item.TotalPrice)
	}
	if item.DiscountAmount != 0 {
		t.Fatalf("expected stale discount cleared, got %d", item.DiscountAmount)
	}
}
