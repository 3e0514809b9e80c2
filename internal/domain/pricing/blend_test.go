package pricing

import (
	"math"
	"testing"

	"github.com/clinova/pos-api/internal/domain/entity"
)

func TestBlendCost(t *testing.T) {
	ingredients := []entity.BlendIngredient{
		{Quantity: 10, CostPerUnit: Cents(0.50)},
		{Quantity: 5, CostPerUnit: Cents(1.40)},
	}
	if got := BlendCost(ingredients); got != Cents(12) {
		t.Fatalf("expected cost 1200 cents, got %d", got)
	}
}

func TestQuoteMargin(t *testing.T) {
	quote := QuoteMargin(Cents(12), 50)

	if quote.SellingPriceCents != Cents(18) {
		t.Fatalf("expected selling price 1800 cents, got %d", quote.SellingPriceCents)
	}
	if quote.FloorPriceCents != Cents(13.20) {
		t.Fatalf("expected floor 1320 cents, got %d", quote.FloorPriceCents)
	}
}

func TestQuoteManualBackComputesMargin(t *testing.T) {
	quote := QuoteManual(Cents(10), Cents(15))

	if quote.SellingPriceCents != Cents(15) {
		t.Fatalf("expected manual price kept, got %d", quote.SellingPriceCents)
	}
	if math.Abs(quote.MarginPercent-50) > 1e-9 {
		t.Fatalf("expected 50%% margin, got %g", quote.MarginPercent)
	}

	// A price below the floor is allowed; the floor is informational
	cheap := QuoteManual(Cents(10), Cents(9))
	if cheap.SellingPriceCents != Cents(9) {
		t.Fatalf("expected below-floor price kept, got %d", cheap.SellingPriceCents)
	}
	if cheap.MarginPercent >= 0 {
		t.Fatalf("expected negative margin, got %g", cheap.MarginPercent)
	}
}

func TestDeriveMargin(t *testing.T) {
	if got := DeriveMargin(Cents(18), Cents(12)); math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected derived margin 50%%, got %g", got)
	}
	if got := DeriveMargin(Cents(18), 0); got != 0 {
		t.Fatalf("expected 0 for zero cost, got %g", got)
	}
}

func TestValidateBlend(t *testing.T) {
	errs := ValidateBlend("", "", nil)
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(errs))
	}

	errs = ValidateBlend("Sleep Blend", "30ml amber", []entity.BlendIngredient{
		{Quantity: 5},
		{Quantity: 0},
	})
	if len(errs) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(errs))
	}
	if errs[0].Field != "ingredients[1].quantity" {
		t.Fatalf("unexpected field: %s", errs[0].Field)
	}

	if errs := ValidateBlend("Sleep Blend", "30ml amber", []entity.BlendIngredient{{Quantity: 5}}); len(errs) != 0 {
		t.Fatalf("expected valid blend, got %v", errs)
	}
}
